package sqlrepo

import (
	"io"
	"time"

	"log/slog"

	"github.com/garnizeh/hersafety/internal/db"
	"github.com/garnizeh/hersafety/pkg/repository"
)

// SQLRepo implements repository interfaces using the internal DB wrapper.
// Queries are written with '?' placeholders and rebound per driver.
type SQLRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLRepo)(nil)
var _ repository.IncidentRepo = (*SQLRepo)(nil)
var _ repository.CaseRepo = (*SQLRepo)(nil)
var _ repository.PoliceRepo = (*SQLRepo)(nil)
var _ repository.ContactRepo = (*SQLRepo)(nil)
var _ repository.SOSRepo = (*SQLRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &SQLRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// dup maps unique-key violations onto repository.ErrDuplicate.
func dup(err error) error {
	if db.IsUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}
