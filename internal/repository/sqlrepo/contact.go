package sqlrepo

import (
	"context"
	"fmt"

	"github.com/garnizeh/hersafety/pkg/models"
)

func (r *SQLRepo) CreateContact(ctx context.Context, c *models.EmergencyContact) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("contact is nil")
	}

	ts := now()
	var id int64
	if err := r.conn.QueryRow(ctx, `INSERT INTO emergency_contacts (user_id, name, phone, relation, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		c.UserID, c.Name, c.Phone, c.Relation, ts).Scan(&id); err != nil {
		return 0, err
	}

	c.ID = id
	c.CreatedAt = fromMillis(ts)

	return id, nil
}

func (r *SQLRepo) ListContactsByUser(ctx context.Context, userID int64) ([]models.EmergencyContact, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, name, phone, relation, created_at FROM emergency_contacts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EmergencyContact
	for rows.Next() {
		var (
			c       models.EmergencyContact
			created int64
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Relation, &created); err != nil {
			return nil, err
		}

		c.CreatedAt = fromMillis(created)
		out = append(out, c)
	}

	return out, rows.Err()
}

// DeleteContact only removes the contact when it belongs to userID.
func (r *SQLRepo) DeleteContact(ctx context.Context, userID, id int64) (bool, error) {
	res, err := r.conn.Exec(ctx, `DELETE FROM emergency_contacts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
