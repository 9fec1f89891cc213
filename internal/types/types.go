package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Indicator is the comparison an alert applies to the current price.
type Indicator string

const (
	IndicatorGreaterThan Indicator = ">"
	IndicatorLessThan    Indicator = "<"
)

func (i Indicator) Valid() bool {
	return i == IndicatorGreaterThan || i == IndicatorLessThan
}

// Device types accepted for push delivery targets.
const (
	DeviceIOS     = "ios"
	DeviceAndroid = "android"
	DeviceWindows = "windows"
	DeviceMacOS   = "macos"
)

func ValidDeviceType(t string) bool {
	switch t {
	case DeviceIOS, DeviceAndroid, DeviceWindows, DeviceMacOS:
		return true
	}
	return false
}

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Alert is a watched threshold condition on an exchange trading pair.
// IsNotified is only ever true while IsActive is true; TriggerValue is
// zero whenever the alert is inactive.
type Alert struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Exchange     string          `json:"exchange"`
	Coinpair     string          `json:"coinpair"` // BASE:QUOTE, e.g. XBT:EUR
	Indicator    Indicator       `json:"indicator"`
	Limit        decimal.Decimal `json:"limit"`
	IsActive     bool            `json:"is_active"`
	IsNotified   bool            `json:"is_notified"`
	TriggerValue decimal.Decimal `json:"trigger_value"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (a Alert) String() string {
	return fmt.Sprintf("%s %s %s", a.Coinpair, a.Indicator, a.Limit)
}

// DeviceToken is a push-delivery endpoint owned by a user.
type DeviceToken struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Token      string    `json:"token"`
	DeviceType string    `json:"device_type"`
	CreatedAt  time.Time `json:"created_at"`
}

func (d DeviceToken) String() string {
	return fmt.Sprintf("%s %s", d.DeviceType, d.Token)
}

// NotificationHistory is one append-only record per dispatch attempt.
// AlertID is nil once the triggering alert has been deleted.
type NotificationHistory struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	AlertID   *int64    `json:"alert_id"`
	Result    string    `json:"result"`
	Succeeded bool      `json:"succeeded"`
	SentAt    time.Time `json:"sent_at"`
}
