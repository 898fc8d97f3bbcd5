package ports

import (
	"context"

	"github.com/gatherly/events-api/internal/core/domain"
)

// EventRepository defines storage operations for events and their
// registrations. Identifiers are canonical strings; implementations normalize
// whatever the store returns before handing rows to the domain layer.
type EventRepository interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
	FindEventByID(ctx context.Context, id string) (*domain.Event, error)
	InsertEvent(ctx context.Context, event *domain.Event) (*domain.Event, error)
	UpdateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error)
	// DeleteEvent removes the event row; the store cascades the delete to all
	// of its registrations.
	DeleteEvent(ctx context.Context, id string) error

	InsertRegistration(ctx context.Context, eventID, userID string) error
	DeleteRegistration(ctx context.Context, eventID, userID string) error
	IsRegistered(ctx context.Context, eventID, userID string) (bool, error)
	ListAttendees(ctx context.Context, eventID string) ([]domain.Attendee, error)
	ListRegisteredEvents(ctx context.Context, userID string) ([]domain.RegisteredEvent, error)

	// ListImageURLs returns every non-empty image reference currently stored,
	// used to detect orphaned assets on disk.
	ListImageURLs(ctx context.Context) ([]string, error)
}
