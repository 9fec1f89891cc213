package database

import (
	"fmt"
	"time"

	"tinychain-alerting/internal/types"
)

// InsertNotificationHistory appends one audit record for a dispatch
// attempt. Rows are never updated or deleted by the service.
func (s *Store) InsertNotificationHistory(userID int64, alertID *int64, succeeded bool, result string) error {
	query := `
	INSERT INTO notification_history (user_id, alert_id, result, succeeded, sent_at)
	VALUES (?, ?, ?, ?, ?);`

	_, err := s.db.Exec(query, userID, alertID, result, succeeded, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert notification history: %w", err)
	}
	return nil
}

// GetNotificationHistoryByUserID fetches a user's audit records,
// newest first.
func (s *Store) GetNotificationHistoryByUserID(userID int64) ([]types.NotificationHistory, error) {
	query := `
	SELECT id, user_id, alert_id, result, succeeded, sent_at
	FROM notification_history
	WHERE user_id = ?
	ORDER BY sent_at DESC, id DESC;`

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification history for user %d: %w", userID, err)
	}
	defer rows.Close()

	var records []types.NotificationHistory
	for rows.Next() {
		var h types.NotificationHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.AlertID, &h.Result, &h.Succeeded, &h.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notification history: %w", err)
	}
	return records, nil
}

// CountNotificationHistory returns the total number of audit records.
func (s *Store) CountNotificationHistory() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM notification_history;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count notification history: %w", err)
	}
	return n, nil
}
