package database

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"tinychain-alerting/internal/types"
)

const alertColumns = `id, user_id, exchange, coinpair, indicator, limit_value, is_active, is_notified, trigger_value, created_at`

// InsertAlert saves a new alert. New alerts always start inactive and
// unnotified with a zero trigger value.
func (s *Store) InsertAlert(userID int64, exchange, coinpair string, indicator types.Indicator, limit decimal.Decimal) (int64, error) {
	query := `
	INSERT INTO alerts (user_id, exchange, coinpair, indicator, limit_value)
	VALUES (?, ?, ?, ?, ?);`

	res, err := s.db.Exec(query, userID, exchange, coinpair, string(indicator), limit.String())
	if err != nil {
		return 0, fmt.Errorf("failed to insert alert: %w", err)
	}
	return res.LastInsertId()
}

// GetAllAlerts fetches every alert, ordered by exchange and coinpair
// descending so evaluation passes iterate in a stable order.
func (s *Store) GetAllAlerts() ([]types.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts ORDER BY exchange DESC, coinpair DESC;`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// GetActiveUnnotifiedAlerts fetches the newly-active, undelivered set.
func (s *Store) GetActiveUnnotifiedAlerts() ([]types.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts
	WHERE is_active = 1 AND is_notified = 0
	ORDER BY exchange DESC, coinpair DESC;`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// GetAlertsByUserID fetches all alerts owned by a user.
func (s *Store) GetAlertsByUserID(userID int64) ([]types.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts
	WHERE user_id = ?
	ORDER BY exchange DESC, coinpair DESC;`

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts for user %d: %w", userID, err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

func (s *Store) GetAlert(id int64) (*types.Alert, error) {
	row := s.db.QueryRow(`SELECT `+alertColumns+` FROM alerts WHERE id = ?;`, id)

	a, err := scanAlert(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get alert %d: %w", id, err)
	}
	return a, nil
}

// SaveAlertState persists the evaluation/notification state of one
// alert. The identifying columns never change after creation.
func (s *Store) SaveAlertState(a *types.Alert) error {
	query := `
	UPDATE alerts
	SET is_active = ?, is_notified = ?, trigger_value = ?
	WHERE id = ?;`

	_, err := s.db.Exec(query, a.IsActive, a.IsNotified, a.TriggerValue.String(), a.ID)
	if err != nil {
		return fmt.Errorf("failed to save alert %d state: %w", a.ID, err)
	}
	return nil
}

// DeleteAlert removes an alert. History rows referencing it are kept
// with their alert reference cleared.
func (s *Store) DeleteAlert(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM alerts WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("failed to delete alert %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (*types.Alert, error) {
	var a types.Alert
	var limitStr, triggerStr string

	err := row.Scan(&a.ID, &a.UserID, &a.Exchange, &a.Coinpair, (*string)(&a.Indicator),
		&limitStr, &a.IsActive, &a.IsNotified, &triggerStr, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	if a.Limit, err = decimal.NewFromString(limitStr); err != nil {
		return nil, fmt.Errorf("invalid limit %q for alert %d: %w", limitStr, a.ID, err)
	}
	if a.TriggerValue, err = decimal.NewFromString(triggerStr); err != nil {
		return nil, fmt.Errorf("invalid trigger value %q for alert %d: %w", triggerStr, a.ID, err)
	}
	return &a, nil
}

func scanAlerts(rows *sql.Rows) ([]types.Alert, error) {
	var alerts []types.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		alerts = append(alerts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}
	return alerts, nil
}
