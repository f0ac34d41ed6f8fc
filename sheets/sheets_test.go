package sheets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedNotifier(cfg Config) (*Notifier, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewNotifier(cfg, zap.New(core)), logs
}

func TestConfigured(t *testing.T) {
	cases := []struct {
		cfg  Config
		want bool
	}{
		{Config{}, false},
		{Config{CredentialsFile: "key.json"}, false},
		{Config{SpreadsheetID: "abc"}, false},
		{Config{CredentialsFile: "key.json", SpreadsheetID: "abc"}, true},
	}
	for _, tc := range cases {
		n, _ := observedNotifier(tc.cfg)
		assert.Equal(t, tc.want, n.Configured(), "%+v", tc.cfg)
	}
}

func TestContactCreatedSkipsWhenUnconfigured(t *testing.T) {
	n, logs := observedNotifier(Config{Timezone: "Asia/Ho_Chi_Minh"})

	n.ContactCreated(context.Background(), Message{ID: 42, Name: "Hà"})

	entries := logs.FilterMessage("sheets sync not configured, skipping contact message").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(42), entries[0].ContextMap()["message_id"])
}

func TestContactCreatedSwallowsCredentialErrors(t *testing.T) {
	n, logs := observedNotifier(Config{
		CredentialsFile: "/nonexistent/key.json",
		SpreadsheetID:   "abc",
		Timezone:        "Asia/Ho_Chi_Minh",
	})

	// Must not panic or propagate anything; the failure surfaces only as
	// an error log carrying the message id.
	n.ContactCreated(context.Background(), Message{ID: 7, Name: "An", PhoneNumber: "0901", Body: "x"})

	entries := logs.FilterMessage("sheets sync: read credentials").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7), entries[0].ContextMap()["message_id"])
}

func TestNewNotifierFallsBackToUTC(t *testing.T) {
	n, logs := observedNotifier(Config{Timezone: "Mars/Olympus_Mons"})

	assert.Equal(t, time.UTC, n.loc)
	assert.Len(t, logs.FilterMessage("unknown timezone for sheets sync, using UTC").All(), 1)
}

func TestRowUsesConfiguredTimezone(t *testing.T) {
	n, _ := observedNotifier(Config{Timezone: "Asia/Ho_Chi_Minh"})

	// 2024-03-01 17:30 UTC is 2024-03-02 00:30 in Hồ Chí Minh City.
	created := time.Date(2024, 3, 1, 17, 30, 0, 0, time.UTC)
	local := created.In(n.loc)
	assert.Equal(t, "2024-03-02", local.Format("2006-01-02"))
	assert.Equal(t, "00:30", local.Format("15:04"))
}
