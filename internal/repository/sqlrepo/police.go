package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/hersafety/pkg/models"
)

func (r *SQLRepo) CreatePolice(ctx context.Context, p *models.Police) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("police is nil")
	}

	var id int64
	if err := r.conn.QueryRow(ctx, `INSERT INTO police (name, badge_number, phone, station) VALUES (?, ?, ?, ?) RETURNING id`,
		p.Name, p.BadgeNumber, p.Phone, p.Station).Scan(&id); err != nil {
		return 0, dup(err)
	}

	return id, nil
}

func (r *SQLRepo) GetPolice(ctx context.Context, id int64) (*models.Police, error) {
	var p models.Police
	if err := r.conn.QueryRow(ctx, `SELECT id, name, badge_number, phone, station FROM police WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.BadgeNumber, &p.Phone, &p.Station); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &p, nil
}

func (r *SQLRepo) ListPolice(ctx context.Context) ([]models.Police, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name, badge_number, phone, station FROM police ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Police
	for rows.Next() {
		var p models.Police
		if err := rows.Scan(&p.ID, &p.Name, &p.BadgeNumber, &p.Phone, &p.Station); err != nil {
			return nil, err
		}

		out = append(out, p)
	}

	return out, rows.Err()
}
