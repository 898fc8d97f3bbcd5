package ports

import (
	"context"

	"github.com/gatherly/events-api/internal/core/domain"
)

// CreateEventInput carries the fields accepted when creating an event.
// ImageURL is set by the upload layer, never directly by the client.
type CreateEventInput struct {
	Title       string
	Description string
	Date        string
	Location    string
	Time        string
	ImageURL    string
}

// UpdateEventInput carries partial-update fields. A nil pointer means "keep
// the current value"; a pointer to the empty string is an explicit clear.
type UpdateEventInput struct {
	Title       *string
	Description *string
	Date        *string
	Location    *string
	Time        *string
	ImageURL    *string
}

type EventService interface {
	List(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	Create(ctx context.Context, in CreateEventInput, ownerID string) (*domain.Event, error)
	Update(ctx context.Context, id string, in UpdateEventInput, requesterID string) (*domain.Event, error)
	Delete(ctx context.Context, id, requesterID string) error

	Register(ctx context.Context, eventID, userID string) (*domain.Event, error)
	Unregister(ctx context.Context, eventID, userID string) error
	Attendees(ctx context.Context, eventID, requesterID string) ([]domain.Attendee, error)
	RegistrationStatus(ctx context.Context, eventID, userID string) (bool, error)
	UserRegistrations(ctx context.Context, userID string) ([]domain.RegisteredEvent, error)
}
