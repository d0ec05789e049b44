package sqlrepo

import (
	"context"
	"fmt"

	"github.com/garnizeh/hersafety/pkg/models"
)

func (r *SQLRepo) CreateSOSAlert(ctx context.Context, a *models.SOSAlert) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("sos alert is nil")
	}

	ts := now()
	var id int64
	if err := r.conn.QueryRow(ctx, `INSERT INTO sos_alerts (user_id, latitude, longitude, notified, failed, created_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		a.UserID, a.Latitude, a.Longitude, a.Notified, a.Failed, ts).Scan(&id); err != nil {
		return 0, err
	}

	a.ID = id
	a.CreatedAt = fromMillis(ts)

	return id, nil
}
