package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iliyamo/eventdeck/internal/model"
	"github.com/iliyamo/eventdeck/internal/queue"
)

// EventStore persists events. *repository.EventRepo satisfies it.
type EventStore interface {
	Create(ctx context.Context, e model.Event) (model.Event, error)
	GetByID(ctx context.Context, id int64) (model.Event, error)
	Update(ctx context.Context, e model.Event) (model.Event, error)
	Delete(ctx context.Context, id int64) error
}

// Embedder turns text into a vector. *embeddings.Client satisfies it.
type Embedder interface {
	Embed(ctx context.Context, sentence string) ([]float64, error)
}

// EventService implements event writes, single reads and likes.
type EventService struct {
	events   EventStore
	users    UserStore
	embedder Embedder // nil disables embeddings
	activity ActivityPublisher
	log      zerolog.Logger
}

func NewEventService(events EventStore, users UserStore, embedder Embedder, activity ActivityPublisher, log zerolog.Logger) *EventService {
	return &EventService{events: events, users: users, embedder: embedder, activity: activity, log: log}
}

// EventInput holds the client-editable fields of an event.
type EventInput struct {
	Title       string
	ImageURL    string
	Tags        []string
	Data        model.EventData
	Description string
	Category    model.Category
}

func (in EventInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	case !in.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidEvent, in.Category)
	case in.Data.Location != model.LocationOnline && in.Data.Location != model.LocationOffline:
		return fmt.Errorf("%w: location must be online or offline", ErrInvalidEvent)
	case in.Data.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidEvent)
	}
	return nil
}

func (in EventInput) apply(e *model.Event) {
	e.Title = strings.TrimSpace(in.Title)
	e.ImageURL = strings.TrimSpace(in.ImageURL)
	e.Tags = in.Tags
	e.Data = in.Data
	e.Description = in.Description
	e.Category = in.Category
}

// embed computes the event vector. Failures are logged and leave the event
// without an embedding.
func (s *EventService) embed(ctx context.Context, e model.Event) []float64 {
	if s.embedder == nil {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, strings.TrimSpace(e.Title+" "+e.Description))
	if err != nil {
		s.log.Warn().Err(err).Str("title", e.Title).Msg("embedding failed; storing event without it")
		return nil
	}
	return vec
}

// Create stores a new event authored by author.
func (s *EventService) Create(ctx context.Context, author model.Identity, in EventInput) (model.Event, error) {
	if err := in.validate(); err != nil {
		return model.Event{}, err
	}
	e := model.Event{AuthorUsername: author.Username}
	in.apply(&e)
	e.Embedding = s.embed(ctx, e)

	created, err := s.events.Create(ctx, e)
	if err != nil {
		return model.Event{}, err
	}
	notify(s.activity, s.log, queue.ActivityEvent{Type: queue.TypeEventCreated, Username: author.Username, EventID: created.ID})
	return created, nil
}

// Get returns a single event.
func (s *EventService) Get(ctx context.Context, id int64) (model.Event, error) {
	return s.events.GetByID(ctx, id)
}

// Update replaces the editable fields of an event. Only the author who
// created it may update it.
func (s *EventService) Update(ctx context.Context, author model.Identity, id int64, in EventInput) (model.Event, error) {
	if err := in.validate(); err != nil {
		return model.Event{}, err
	}
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	if e.AuthorUsername != author.Username {
		return model.Event{}, ErrForbidden
	}
	textChanged := strings.TrimSpace(in.Title) != e.Title || in.Description != e.Description
	in.apply(&e)
	if textChanged || e.Embedding == nil {
		e.Embedding = s.embed(ctx, e)
	}
	return s.events.Update(ctx, e)
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	return s.events.Delete(ctx, id)
}

// Like adds the event to who's likes. The event must exist.
func (s *EventService) Like(ctx context.Context, who model.Identity, id int64) ([]int64, error) {
	if _, err := s.events.GetByID(ctx, id); err != nil {
		return nil, err
	}
	likes, err := s.users.SetLike(ctx, who.Username, id, true)
	if err != nil {
		return nil, err
	}
	notify(s.activity, s.log, queue.ActivityEvent{Type: queue.TypeEventLiked, Username: who.Username, EventID: id})
	return likes, nil
}

// Unlike removes the event from who's likes. Unliking a deleted event is
// allowed so stale ids can be cleaned up.
func (s *EventService) Unlike(ctx context.Context, who model.Identity, id int64) ([]int64, error) {
	return s.users.SetLike(ctx, who.Username, id, false)
}
