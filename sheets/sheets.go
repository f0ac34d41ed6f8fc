// Package sheets pushes newly created contact messages into a Google
// spreadsheet. It is a best-effort, at-most-once side channel: every
// failure mode — missing configuration, unreadable credentials, auth or
// remote API errors — is logged with the triggering message's ID and
// swallowed. The caller's save is never affected and nothing is retried.
package sheets

import (
	"context"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Config is the sync configuration, sourced once at process start and
// injected here; the notifier never re-reads configuration per call.
// Leaving CredentialsFile or SpreadsheetID empty disables the sync.
type Config struct {
	CredentialsFile string // service-account JSON key file
	SpreadsheetID   string
	Timezone        string // IANA name for the date/time columns
}

// Message is the contact submission to be appended.
type Message struct {
	ID          int64
	Name        string
	PhoneNumber string
	Body        string
	CreatedAt   time.Time
}

// Notifier appends one spreadsheet row per created contact message.
type Notifier struct {
	cfg Config
	log *zap.Logger
	loc *time.Location
}

func NewNotifier(cfg Config, log *zap.Logger) *Notifier {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn("unknown timezone for sheets sync, using UTC",
			zap.String("timezone", cfg.Timezone))
		loc = time.UTC
	}
	return &Notifier{cfg: cfg, log: log, loc: loc}
}

// Configured reports whether the sync has everything it needs to run.
func (n *Notifier) Configured() bool {
	return n.cfg.CredentialsFile != "" && n.cfg.SpreadsheetID != ""
}

// ContactCreated appends one row for a message that was just persisted.
// It fires once per creation, never on update or delete, and never returns
// an error: the submission already succeeded and must stay successful.
//
// The call is synchronous and has no timeout of its own beyond the
// transport's; a slow spreadsheet API slows the submission response but
// cannot fail it.
func (n *Notifier) ContactCreated(ctx context.Context, m Message) {
	if !n.Configured() {
		n.log.Info("sheets sync not configured, skipping contact message",
			zap.Int64("message_id", m.ID))
		return
	}

	creds, err := os.ReadFile(n.cfg.CredentialsFile)
	if err != nil {
		n.log.Error("sheets sync: read credentials",
			zap.Int64("message_id", m.ID), zap.Error(err))
		return
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		n.log.Error("sheets sync: authenticate",
			zap.Int64("message_id", m.ID), zap.Error(err))
		return
	}

	local := m.CreatedAt.In(n.loc)
	row := []interface{}{
		local.Format("2006-01-02"),
		local.Format("15:04"),
		m.Name,
		m.PhoneNumber,
		strings.ReplaceAll(m.Body, "\n", " "),
	}

	_, err = svc.Spreadsheets.Values.
		Append(n.cfg.SpreadsheetID, "Sheet1", &sheets.ValueRange{
			Values: [][]interface{}{row},
		}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		n.log.Error("sheets sync: append row",
			zap.Int64("message_id", m.ID), zap.Error(err))
		return
	}

	n.log.Info("contact message appended to sheet",
		zap.Int64("message_id", m.ID))
}
