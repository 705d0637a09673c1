package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/eventdeck/internal/model"
)

// EventRepo provides data access to the events table.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the provided database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = "id,title,image_url,tags,data,description,category,author_username,embedding,created_at,updated_at"

func scanEvent(row rowScanner) (model.Event, error) {
	var (
		e                     model.Event
		category              string
		tags, data, embedding []byte
	)
	if err := row.Scan(&e.ID, &e.Title, &e.ImageURL, &tags, &data, &e.Description,
		&category, &e.AuthorUsername, &embedding, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return model.Event{}, err
	}
	e.Category = model.Category(category)
	if err := decodeJSON(tags, &e.Tags); err != nil {
		return model.Event{}, fmt.Errorf("decode tags: %w", err)
	}
	if err := decodeJSON(data, &e.Data); err != nil {
		return model.Event{}, fmt.Errorf("decode data: %w", err)
	}
	if err := decodeJSON(embedding, &e.Embedding); err != nil {
		return model.Event{}, fmt.Errorf("decode embedding: %w", err)
	}
	return e, nil
}

// eventArgs encodes the JSON columns shared by insert and update.
func eventArgs(e model.Event) (tags, data string, embedding sql.NullString, err error) {
	if tags, err = encodeJSON(stringsOrEmpty(e.Tags)); err != nil {
		return
	}
	if data, err = encodeJSON(e.Data); err != nil {
		return
	}
	embedding, err = encodeNullableJSON(e.Embedding, e.Embedding == nil)
	return
}

// Create inserts e and returns it with ID and timestamps set.
func (r *EventRepo) Create(ctx context.Context, e model.Event) (model.Event, error) {
	tags, data, embedding, err := eventArgs(e)
	if err != nil {
		return model.Event{}, err
	}
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (title,image_url,tags,data,description,category,author_username,embedding,created_at,updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		e.Title, e.ImageURL, tags, data, e.Description, string(e.Category), e.AuthorUsername, embedding, now, now)
	if err != nil {
		return model.Event{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Event{}, err
	}
	e.ID = id
	e.Tags = stringsOrEmpty(e.Tags)
	e.CreatedAt, e.UpdatedAt = now, now
	return e, nil
}

// GetByID returns the event or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id int64) (model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrEventNotFound
	}
	return e, err
}

// Update overwrites the mutable columns of e (everything except the
// author and created_at) and bumps updated_at. A row deleted since the
// caller loaded it yields ErrEventNotFound; the connection must use
// clientFoundRows (see database.DSN) so a no-op update still counts.
func (r *EventRepo) Update(ctx context.Context, e model.Event) (model.Event, error) {
	tags, data, embedding, err := eventArgs(e)
	if err != nil {
		return model.Event{}, err
	}
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET title=?, image_url=?, tags=?, data=?, description=?, category=?, embedding=?, updated_at=?
		 WHERE id=?`,
		e.Title, e.ImageURL, tags, data, e.Description, string(e.Category), embedding, now, e.ID)
	if err != nil {
		return model.Event{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Event{}, err
	}
	if n == 0 {
		return model.Event{}, ErrEventNotFound
	}
	e.Tags = stringsOrEmpty(e.Tags)
	e.UpdatedAt = now
	return e, nil
}

// Delete removes the event row. Likes that reference it are left in the
// users' lists and simply stop resolving.
func (r *EventRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}
