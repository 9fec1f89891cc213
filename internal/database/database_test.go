package database

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"tinychain-alerting/internal/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testUser(t *testing.T, s *Store, email string) int64 {
	t.Helper()

	id, err := s.InsertUser(email, "Test User")
	if err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}
	return id
}

func testAlert(t *testing.T, s *Store, userID int64, exchange, coinpair string) int64 {
	t.Helper()

	id, err := s.InsertAlert(userID, exchange, coinpair, types.IndicatorGreaterThan, decimal.RequireFromString("100.00"))
	if err != nil {
		t.Fatalf("failed to insert alert: %v", err)
	}
	return id
}

func TestInsertAndGetAlert(t *testing.T) {
	s := testStore(t)
	userID := testUser(t, s, "test@simpletechture.nl")

	id, err := s.InsertAlert(userID, "Kraken", "XBT:EUR", types.IndicatorLessThan, decimal.RequireFromString("18200.00"))
	if err != nil {
		t.Fatalf("InsertAlert failed: %v", err)
	}

	a, err := s.GetAlert(id)
	if err != nil {
		t.Fatalf("GetAlert failed: %v", err)
	}
	if a.Exchange != "Kraken" || a.Coinpair != "XBT:EUR" || a.Indicator != types.IndicatorLessThan {
		t.Errorf("unexpected alert: %+v", a)
	}
	if !a.Limit.Equal(decimal.RequireFromString("18200.00")) {
		t.Errorf("limit = %s, want 18200.00", a.Limit)
	}
	if a.IsActive || a.IsNotified || !a.TriggerValue.IsZero() {
		t.Errorf("new alert should start inactive with zero trigger: %+v", a)
	}
}

func TestGetAllAlertsOrdering(t *testing.T) {
	s := testStore(t)
	userID := testUser(t, s, "test@simpletechture.nl")

	testAlert(t, s, userID, "Binance", "ETH:USD")
	testAlert(t, s, userID, "Kraken", "ADA:EUR")
	testAlert(t, s, userID, "Kraken", "XBT:EUR")

	alerts, err := s.GetAllAlerts()
	if err != nil {
		t.Fatalf("GetAllAlerts failed: %v", err)
	}
	if len(alerts) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(alerts))
	}

	// exchange DESC, then coinpair DESC
	want := []string{"XBT:EUR", "ADA:EUR", "ETH:USD"}
	for i, w := range want {
		if alerts[i].Coinpair != w {
			t.Errorf("alerts[%d].Coinpair = %q, want %q", i, alerts[i].Coinpair, w)
		}
	}
}

func TestSaveAlertStateRoundTrip(t *testing.T) {
	s := testStore(t)
	userID := testUser(t, s, "test@simpletechture.nl")
	id := testAlert(t, s, userID, "Kraken", "XBT:EUR")

	a, err := s.GetAlert(id)
	if err != nil {
		t.Fatalf("GetAlert failed: %v", err)
	}
	a.IsActive = true
	a.IsNotified = true
	a.TriggerValue = decimal.RequireFromString("8352.10052")

	if err := s.SaveAlertState(a); err != nil {
		t.Fatalf("SaveAlertState failed: %v", err)
	}

	got, err := s.GetAlert(id)
	if err != nil {
		t.Fatalf("GetAlert failed: %v", err)
	}
	if !got.IsActive || !got.IsNotified {
		t.Errorf("state flags not persisted: %+v", got)
	}
	if !got.TriggerValue.Equal(decimal.RequireFromString("8352.10052")) {
		t.Errorf("trigger value = %s, want 8352.10052", got.TriggerValue)
	}
}

func TestGetActiveUnnotifiedAlerts(t *testing.T) {
	s := testStore(t)
	userID := testUser(t, s, "test@simpletechture.nl")

	pendingID := testAlert(t, s, userID, "Kraken", "XBT:EUR")
	notifiedID := testAlert(t, s, userID, "Kraken", "ETH:EUR")
	testAlert(t, s, userID, "Kraken", "ADA:EUR") // stays inactive

	pending, _ := s.GetAlert(pendingID)
	pending.IsActive = true
	pending.TriggerValue = decimal.RequireFromString("200")
	if err := s.SaveAlertState(pending); err != nil {
		t.Fatal(err)
	}

	notified, _ := s.GetAlert(notifiedID)
	notified.IsActive = true
	notified.IsNotified = true
	notified.TriggerValue = decimal.RequireFromString("300")
	if err := s.SaveAlertState(notified); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetActiveUnnotifiedAlerts()
	if err != nil {
		t.Fatalf("GetActiveUnnotifiedAlerts failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != pendingID {
		t.Errorf("expected only the pending alert, got %+v", got)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := testStore(t)
	userID := testUser(t, s, "test@simpletechture.nl")
	otherID := testUser(t, s, "other@simpletechture.nl")

	testAlert(t, s, userID, "Kraken", "XBT:EUR")
	keptID := testAlert(t, s, otherID, "Kraken", "ETH:EUR")

	if _, err := s.InsertDeviceToken(userID, "token-1", types.DeviceIOS); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteUser(userID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	alerts, err := s.GetAllAlerts()
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 1 || alerts[0].ID != keptID {
		t.Errorf("expected only the other user's alert to survive, got %+v", alerts)
	}

	tokens, err := s.GetDeviceTokensByUserID(userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 0 {
		t.Errorf("device tokens should cascade with their user, got %+v", tokens)
	}
}

func TestHistorySurvivesAlertDeletion(t *testing.T) {
	s := testStore(t)
	userID := testUser(t, s, "test@simpletechture.nl")
	alertID := testAlert(t, s, userID, "Kraken", "XBT:EUR")

	if err := s.InsertNotificationHistory(userID, &alertID, true, "Success"); err != nil {
		t.Fatalf("InsertNotificationHistory failed: %v", err)
	}

	if err := s.DeleteAlert(alertID); err != nil {
		t.Fatalf("DeleteAlert failed: %v", err)
	}

	if n, err := s.CountNotificationHistory(); err != nil || n != 1 {
		t.Fatalf("expected 1 history record to survive, got %d (%v)", n, err)
	}

	records, err := s.GetNotificationHistoryByUserID(userID)
	if err != nil {
		t.Fatalf("GetNotificationHistoryByUserID failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected the history record to survive, got %d records", len(records))
	}
	if records[0].AlertID != nil {
		t.Errorf("alert reference should be cleared after deletion, got %v", *records[0].AlertID)
	}
	if records[0].Result != "Success" || !records[0].Succeeded {
		t.Errorf("unexpected history record: %+v", records[0])
	}
	if records[0].SentAt.IsZero() {
		t.Error("sent_at must be set at creation")
	}
}

func TestDeviceTokenReRegistrationMovesToken(t *testing.T) {
	s := testStore(t)
	userID := testUser(t, s, "test@simpletechture.nl")
	otherID := testUser(t, s, "other@simpletechture.nl")

	if _, err := s.InsertDeviceToken(userID, "shared-token", types.DeviceIOS); err != nil {
		t.Fatal(err)
	}
	if _, err := s.InsertDeviceToken(otherID, "shared-token", types.DeviceAndroid); err != nil {
		t.Fatalf("re-registration failed: %v", err)
	}

	if tokens, _ := s.GetDeviceTokensByUserID(userID); len(tokens) != 0 {
		t.Errorf("token should have moved to the other user, got %+v", tokens)
	}
	tokens, _ := s.GetDeviceTokensByUserID(otherID)
	if len(tokens) != 1 || tokens[0].DeviceType != types.DeviceAndroid {
		t.Errorf("expected the moved token with updated device type, got %+v", tokens)
	}
}

func TestMetricsRoundTrip(t *testing.T) {
	s := testStore(t)

	if v, err := s.GetMetric("alerts_evaluated"); err != nil || v != 0 {
		t.Errorf("unsaved metric should default to 0, got %f, %v", v, err)
	}

	if err := s.SaveMetric("alerts_evaluated", 42); err != nil {
		t.Fatalf("SaveMetric failed: %v", err)
	}
	if err := s.SaveMetric("alerts_evaluated", 43); err != nil {
		t.Fatalf("SaveMetric overwrite failed: %v", err)
	}

	v, err := s.GetMetric("alerts_evaluated")
	if err != nil {
		t.Fatalf("GetMetric failed: %v", err)
	}
	if v != 43 {
		t.Errorf("metric value = %f, want 43", v)
	}
}
