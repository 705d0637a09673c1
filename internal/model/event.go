package model

import "time"

// Category classifies an event item.
type Category string

const (
	CategoryEvent     Category = "event"
	CategoryChallenge Category = "challenge"
	CategoryWorkshop  Category = "workshop"
	CategoryProject   Category = "project"
	CategoryContest   Category = "contest"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryEvent, CategoryChallenge, CategoryWorkshop, CategoryProject, CategoryContest:
		return true
	}
	return false
}

// Location is where an event takes place.
type Location string

const (
	LocationOnline  Location = "online"
	LocationOffline Location = "offline"
)

// EventData carries the practical details of an event.
type EventData struct {
	Date      time.Time `json:"date"`
	Location  Location  `json:"location"`
	Prize     string    `json:"prize"`
	Organizer string    `json:"organizer"`
}

// Event represents a row of the `events` table.  Data and Tags are stored
// as JSON columns.  Embedding is filled from the sentence embedding service
// when it is configured and stays nil otherwise.
type Event struct {
	ID             int64     // events.id
	Title          string    // events.title
	ImageURL       string    // events.image_url
	Tags           []string  // events.tags
	Data           EventData // events.data
	Description    string    // events.description
	Category       Category  // events.category
	AuthorUsername string    // events.author_username
	Embedding      []float64 // events.embedding (nullable)
	CreatedAt      time.Time // events.created_at
	UpdatedAt      time.Time // events.updated_at
}
