package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/hersafety/internal/db"
	"github.com/garnizeh/hersafety/pkg/models"
)

const incidentColumns = `id, user_id, date, time, location, type, description, status, reporter, has_evidence, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncident(row rowScanner) (*models.Incident, error) {
	var (
		inc              models.Incident
		created, updated int64
	)
	if err := row.Scan(&inc.ID, &inc.UserID, &inc.Date, &inc.Time, &inc.Location, &inc.Type, &inc.Description,
		&inc.Status, &inc.Reporter, &inc.HasEvidence, &created, &updated); err != nil {
		return nil, err
	}
	inc.CreatedAt = fromMillis(created)
	inc.UpdatedAt = fromMillis(updated)

	return &inc, nil
}

// CreateIncidentWithCase inserts the incident and its first case tracking row
// in one transaction so a failed assignment never leaves an orphan incident.
func (r *SQLRepo) CreateIncidentWithCase(ctx context.Context, inc *models.Incident, c *models.CaseTracking) (int64, error) {
	if inc == nil || c == nil {
		return 0, fmt.Errorf("incident and case are required")
	}

	ts := now()
	var caseID int64
	err := r.conn.WithTx(ctx, func(tx *db.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO incidents (`+incidentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inc.ID, inc.UserID, inc.Date, inc.Time, inc.Location, inc.Type, inc.Description,
			inc.Status, inc.Reporter, inc.HasEvidence, ts, ts)
		if err != nil {
			return dup(err)
		}

		if err := tx.QueryRow(ctx, `INSERT INTO case_tracking (incident_id, police_id, status, notes, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
			inc.ID, c.PoliceID, c.Status, c.Notes, ts).Scan(&caseID); err != nil {
			return fmt.Errorf("insert case tracking: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	inc.CreatedAt = fromMillis(ts)
	inc.UpdatedAt = inc.CreatedAt
	c.ID = caseID
	c.IncidentID = inc.ID
	c.CreatedAt = inc.CreatedAt

	return caseID, nil
}

func (r *SQLRepo) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	inc, err := scanIncident(r.conn.QueryRow(ctx, `SELECT `+incidentColumns+` FROM incidents WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return inc, nil
}

// ListIncidents returns incidents newest first.
func (r *SQLRepo) ListIncidents(ctx context.Context, f models.IncidentFilter) ([]models.Incident, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID > 0 {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}

	q := `SELECT ` + incidentColumns + ` FROM incidents`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *inc)
	}

	return out, rows.Err()
}

func (r *SQLRepo) UpdateIncident(ctx context.Context, id string, u models.IncidentUpdate) (bool, error) {
	if u.Empty() {
		return false, fmt.Errorf("no fields to update")
	}

	var (
		sets []string
		args []any
	)
	if u.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *u.Date)
	}
	if u.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *u.Location)
	}
	if u.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *u.Type)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *u.Status)
	}
	if u.Reporter != nil {
		sets = append(sets, "reporter = ?")
		args = append(args, *u.Reporter)
	}
	if u.HasEvidence != nil {
		sets = append(sets, "has_evidence = ?")
		args = append(args, *u.HasEvidence)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now(), id)

	res, err := r.conn.Exec(ctx, `UPDATE incidents SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *SQLRepo) DeleteIncident(ctx context.Context, id string) (bool, error) {
	var found bool
	err := r.conn.WithTx(ctx, func(tx *db.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM case_tracking WHERE incident_id = ?`, id); err != nil {
			return fmt.Errorf("delete case history: %w", err)
		}

		res, err := tx.Exec(ctx, `DELETE FROM incidents WHERE id = ?`, id)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		found = n > 0

		return nil
	})
	if err != nil {
		return false, err
	}

	if found {
		r.logger.Debug("incident deleted", "incident_id", id)
	}

	return found, nil
}
