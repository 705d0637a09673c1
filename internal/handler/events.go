package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/eventdeck/internal/middleware"
	"github.com/iliyamo/eventdeck/internal/model"
	"github.com/iliyamo/eventdeck/internal/service"
)

// EventCache drops cached event responses. *middleware.CacheInvalidator
// satisfies it, including when nil.
type EventCache interface {
	InvalidateEvent(ctx context.Context, id int64) error
}

// EventHandler serves event writes, single reads and likes.
type EventHandler struct {
	Events *service.EventService
	Cache  EventCache
	Log    zerolog.Logger
}

func NewEventHandler(events *service.EventService, cache EventCache, log zerolog.Logger) *EventHandler {
	return &EventHandler{Events: events, Cache: cache, Log: log}
}

type eventReq struct {
	Title       string          `json:"title"`
	ImageURL    string          `json:"image_url"`
	Tags        []string        `json:"tags"`
	Data        model.EventData `json:"data"`
	Description string          `json:"description"`
	Category    model.Category  `json:"category"`
}

func (r eventReq) input() service.EventInput {
	return service.EventInput{
		Title:       r.Title,
		ImageURL:    r.ImageURL,
		Tags:        r.Tags,
		Data:        r.Data,
		Description: r.Description,
		Category:    r.Category,
	}
}

type eventResp struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	ImageURL    string          `json:"image_url"`
	Tags        []string        `json:"tags"`
	Data        model.EventData `json:"data"`
	Description string          `json:"description"`
	Category    model.Category  `json:"category"`
	Author      string          `json:"author"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toEventResp(e model.Event) eventResp {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return eventResp{
		ID:          e.ID,
		Title:       e.Title,
		ImageURL:    e.ImageURL,
		Tags:        tags,
		Data:        e.Data,
		Description: e.Description,
		Category:    e.Category,
		Author:      e.AuthorUsername,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *EventHandler) invalidate(ctx context.Context, id int64) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.InvalidateEvent(ctx, id); err != nil {
		h.Log.Warn().Err(err).Int64("event_id", id).Msg("cache invalidation failed")
	}
}

// Create stores a new event owned by the calling author.
func (h *EventHandler) Create(c echo.Context) error {
	who, _ := middleware.IdentityFrom(c)
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second) // includes the embedding call
	defer cancel()

	e, err := h.Events.Create(ctx, who, req.input())
	if err != nil {
		return respond(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, toEventResp(e))
}

// Get returns one event.
func (h *EventHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Events.Get(ctx, id)
	if err != nil {
		return respond(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toEventResp(e))
}

// Update replaces an event; only its author may do so.
func (h *EventHandler) Update(c echo.Context) error {
	who, _ := middleware.IdentityFrom(c)
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	e, err := h.Events.Update(ctx, who, id, req.input())
	if err != nil {
		return respond(c, h.Log, err)
	}
	h.invalidate(ctx, id)
	return c.JSON(http.StatusOK, toEventResp(e))
}

// Delete removes an event.
func (h *EventHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		return respond(c, h.Log, err)
	}
	h.invalidate(ctx, id)
	return c.NoContent(http.StatusNoContent)
}

// Like adds the event to the caller's likes.
func (h *EventHandler) Like(c echo.Context) error {
	return h.setLike(c, true)
}

// Unlike removes the event from the caller's likes.
func (h *EventHandler) Unlike(c echo.Context) error {
	return h.setLike(c, false)
}

func (h *EventHandler) setLike(c echo.Context, liked bool) error {
	who, _ := middleware.IdentityFrom(c)
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		likes []int64
		err   error
	)
	if liked {
		likes, err = h.Events.Like(ctx, who, id)
	} else {
		likes, err = h.Events.Unlike(ctx, who, id)
	}
	if err != nil {
		return respond(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"likes": likes})
}
