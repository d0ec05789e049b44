package sqlrepo

import (
	"context"
	"fmt"

	"github.com/garnizeh/hersafety/internal/db"
	"github.com/garnizeh/hersafety/pkg/models"
	"github.com/garnizeh/hersafety/pkg/repository"
)

func (r *SQLRepo) CreateCase(ctx context.Context, c *models.CaseTracking) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("case is nil")
	}

	ts := now()
	var id int64
	if err := r.conn.QueryRow(ctx, `INSERT INTO case_tracking (incident_id, police_id, status, notes, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		c.IncidentID, c.PoliceID, c.Status, c.Notes, ts).Scan(&id); err != nil {
		return 0, err
	}

	c.ID = id
	c.CreatedAt = fromMillis(ts)

	return id, nil
}

// ListCasesByIncident returns the case history oldest first.
func (r *SQLRepo) ListCasesByIncident(ctx context.Context, incidentID string) ([]models.CaseTracking, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, incident_id, police_id, status, notes, created_at FROM case_tracking WHERE incident_id = ? ORDER BY created_at ASC, id ASC`, incidentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CaseTracking
	for rows.Next() {
		var (
			c       models.CaseTracking
			created int64
		)
		if err := rows.Scan(&c.ID, &c.IncidentID, &c.PoliceID, &c.Status, &c.Notes, &created); err != nil {
			return nil, err
		}

		c.CreatedAt = fromMillis(created)
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *SQLRepo) AppendCaseStatus(ctx context.Context, c *models.CaseTracking) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("case is nil")
	}

	ts := now()
	var id int64
	err := r.conn.WithTx(ctx, func(tx *db.Tx) error {
		res, err := tx.Exec(ctx, `UPDATE incidents SET status = ?, updated_at = ? WHERE id = ?`, c.Status, ts, c.IncidentID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}

		return tx.QueryRow(ctx, `INSERT INTO case_tracking (incident_id, police_id, status, notes, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
			c.IncidentID, c.PoliceID, c.Status, c.Notes, ts).Scan(&id)
	})
	if err != nil {
		return 0, err
	}

	c.ID = id
	c.CreatedAt = fromMillis(ts)

	return id, nil
}
