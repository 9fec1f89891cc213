package database

import (
	"fmt"

	"tinychain-alerting/internal/types"
)

// InsertUser creates a user record. Account management proper lives
// outside this service; this exists so ownership and cascade rules can
// be exercised end to end.
func (s *Store) InsertUser(email, name string) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO users (email, name) VALUES (?, ?);`, email, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetUser(id int64) (*types.User, error) {
	var u types.User
	err := s.db.QueryRow(`SELECT id, email, name, created_at FROM users WHERE id = ?;`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &u, nil
}

// DeleteUser removes a user. Alerts and device tokens cascade; history
// rows keep their user reference only as long as the user exists.
func (s *Store) DeleteUser(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM users WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}
