package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatherly/events-api/internal/core/domain"
	"github.com/gatherly/events-api/internal/core/ports"
)

// ImageRemover abstracts the stored-asset collaborator. Asset deletion is a
// best-effort side effect: a failed removal is logged, never surfaced.
type ImageRemover interface {
	Remove(ref string) error
}

type eventService struct {
	repo   ports.EventRepository
	images ImageRemover
	log    zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(repo ports.EventRepository, images ImageRemover, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, images: images, log: log}
}

func (s *eventService) List(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.FindEventByID(ctx, id)
}

func (s *eventService) Create(ctx context.Context, in ports.CreateEventInput, ownerID string) (*domain.Event, error) {
	if in.Title == "" || in.Description == "" || in.Date == "" || in.Location == "" {
		return nil, domain.ErrMissingFields
	}
	if ownerID == "" {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	event := &domain.Event{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Date:        in.Date,
		Time:        in.Time,
		ImageURL:    in.ImageURL,
		CreatedBy:   ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.InsertEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

func (s *eventService) Update(ctx context.Context, id string, in ports.UpdateEventInput, requesterID string) (*domain.Event, error) {
	event, err := s.repo.FindEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != requesterID {
		return nil, domain.ErrForbidden
	}

	// Partial-update semantics: nil means keep, a set pointer overwrites.
	previousImage := event.ImageURL
	if in.Title != nil {
		event.Title = *in.Title
	}
	if in.Description != nil {
		event.Description = *in.Description
	}
	if in.Date != nil {
		event.Date = *in.Date
	}
	if in.Location != nil {
		event.Location = *in.Location
	}
	if in.Time != nil {
		event.Time = *in.Time
	}
	if in.ImageURL != nil {
		event.ImageURL = *in.ImageURL
	}
	event.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.UpdateEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	// A replaced image orphans the previous asset; remove it now.
	if in.ImageURL != nil && previousImage != "" && previousImage != *in.ImageURL {
		s.removeImage(previousImage)
	}
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, id, requesterID string) error {
	event, err := s.repo.FindEventByID(ctx, id)
	if err != nil {
		return err
	}
	if event.CreatedBy != requesterID {
		return domain.ErrForbidden
	}

	// The store cascades registration rows; the image asset is ours to clean up.
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if event.ImageURL != "" {
		s.removeImage(event.ImageURL)
	}
	return nil
}

func (s *eventService) Register(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	event, err := s.repo.FindEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// The (event_id, user_id) uniqueness constraint serializes concurrent
	// registrations; a duplicate surfaces as ErrAlreadyRegistered.
	if err := s.repo.InsertRegistration(ctx, eventID, userID); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Unregister(ctx context.Context, eventID, userID string) error {
	if _, err := s.repo.FindEventByID(ctx, eventID); err != nil {
		return err
	}
	return s.repo.DeleteRegistration(ctx, eventID, userID)
}

func (s *eventService) Attendees(ctx context.Context, eventID, requesterID string) ([]domain.Attendee, error) {
	event, err := s.repo.FindEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != requesterID {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListAttendees(ctx, eventID)
}

func (s *eventService) RegistrationStatus(ctx context.Context, eventID, userID string) (bool, error) {
	if _, err := s.repo.FindEventByID(ctx, eventID); err != nil {
		return false, err
	}
	return s.repo.IsRegistered(ctx, eventID, userID)
}

func (s *eventService) UserRegistrations(ctx context.Context, userID string) ([]domain.RegisteredEvent, error) {
	return s.repo.ListRegisteredEvents(ctx, userID)
}

func (s *eventService) removeImage(ref string) {
	if err := s.images.Remove(ref); err != nil {
		s.log.Warn().Err(err).Str("image", ref).Msg("failed to remove stored image")
	}
}
