package database

import (
	"database/sql"
	"fmt"

	"tinychain-alerting/internal/types"
)

// InsertDeviceToken registers a push-delivery endpoint for a user.
// Tokens are globally unique; re-registering an existing token moves
// it to the given user and device type.
func (s *Store) InsertDeviceToken(userID int64, token, deviceType string) (int64, error) {
	query := `
	INSERT INTO device_tokens (user_id, token, device_type)
	VALUES (?, ?, ?)
	ON CONFLICT(token) DO UPDATE SET user_id = excluded.user_id, device_type = excluded.device_type;`

	res, err := s.db.Exec(query, userID, token, deviceType)
	if err != nil {
		return 0, fmt.Errorf("failed to insert device token: %w", err)
	}
	return res.LastInsertId()
}

// GetDeviceTokensByUserID fetches a user's registered devices in
// insertion order. The dispatcher sends to the first one only.
func (s *Store) GetDeviceTokensByUserID(userID int64) ([]types.DeviceToken, error) {
	query := `
	SELECT id, user_id, token, device_type, created_at
	FROM device_tokens
	WHERE user_id = ?
	ORDER BY id;`

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query device tokens for user %d: %w", userID, err)
	}
	defer rows.Close()

	return scanDeviceTokens(rows)
}

func (s *Store) DeleteDeviceToken(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM device_tokens WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("failed to delete device token %d: %w", id, err)
	}
	return nil
}

func scanDeviceTokens(rows *sql.Rows) ([]types.DeviceToken, error) {
	var tokens []types.DeviceToken
	for rows.Next() {
		var t types.DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.DeviceType, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate device tokens: %w", err)
	}
	return tokens, nil
}
