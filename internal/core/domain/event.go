package domain

import "time"

// Event is a public happening created and owned by a single user.
// CreatedBy always references an existing user; ownership checks compare
// canonical string identifiers produced once at the repository boundary.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Attendee is one row of an event's registration list, visible only to the
// event owner.
type Attendee struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// RegisteredEvent joins an event with the moment the user registered for it.
type RegisteredEvent struct {
	Event
	RegisteredAt time.Time `json:"registeredAt"`
}
