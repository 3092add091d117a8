package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rialo-labs/builders-arena/pkg/models"
)

func (r *SQLiteRepo) CreateEvent(ctx context.Context, e *models.Event) error {
	if e == nil {
		return fmt.Errorf("event is nil")
	}

	ts := now()
	e.Created = ts
	e.Updated = ts
	_, err := r.q.Exec(ctx, `INSERT INTO events (id, event_type, week_number, title, description, voting_status, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.EventType, e.WeekNumber, e.Title, nullable(e.Description), e.VotingStatus, e.Created, e.Updated)
	return err
}

func (r *SQLiteRepo) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	row := r.q.QueryRow(ctx, `SELECT id, event_type, week_number, title, description, voting_status, created, updated FROM events WHERE id = ?`, id)
	var e models.Event
	var desc sql.NullString
	if err := row.Scan(&e.ID, &e.EventType, &e.WeekNumber, &e.Title, &desc, &e.VotingStatus, &e.Created, &e.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	e.Description = desc.String

	return &e, nil
}

func (r *SQLiteRepo) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := r.q.QueryRows(ctx, `SELECT id, event_type, week_number, title, description, voting_status, created, updated FROM events ORDER BY week_number DESC, created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var e models.Event
		var desc sql.NullString
		if err := rows.Scan(&e.ID, &e.EventType, &e.WeekNumber, &e.Title, &desc, &e.VotingStatus, &e.Created, &e.Updated); err != nil {
			return nil, err
		}
		e.Description = desc.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateEvent(ctx context.Context, e *models.Event) error {
	if e == nil {
		return fmt.Errorf("event is nil")
	}

	_, err := r.q.Exec(ctx, `UPDATE events SET event_type = ?, week_number = ?, title = ?, description = ?, voting_status = ?, updated = ? WHERE id = ?`,
		e.EventType, e.WeekNumber, e.Title, nullable(e.Description), e.VotingStatus, now(), e.ID)
	return err
}

func (r *SQLiteRepo) DeleteEvent(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}

// nullable maps empty strings to NULL so optional text columns stay NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
