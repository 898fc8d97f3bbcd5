package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gatherly/events-api/internal/api/metrics"
	"github.com/gatherly/events-api/internal/core/domain"
	"github.com/gatherly/events-api/internal/core/ports"
)

// ImageStore is the upload collaborator: it persists one image per request
// and hands back the public reference consumed as the event's imageUrl.
type ImageStore interface {
	Save(file *multipart.FileHeader) (string, error)
	Remove(ref string) error
}

// EventHandler exposes event CRUD and registration routes.
type EventHandler struct {
	events ports.EventService
	images ImageStore
	log    zerolog.Logger
}

func NewEventHandler(events ports.EventService, images ImageStore, log zerolog.Logger) *EventHandler {
	return &EventHandler{events: events, images: images, log: log}
}

// List handles GET /events, a full listing without pagination.
//
// @Summary      List all events
// @Tags         events
// @Produce      json
// @Success      200  {array}  domain.Event
// @Router       /events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.events.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Get handles GET /events/:id.
//
// @Summary      Get a single event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  domain.Event
// @Failure      404  {object}  map[string]string
// @Router       /events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	event, err := h.events.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// Create handles POST /events. The body is JSON, or multipart form data when
// an image is attached under the "image" field.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEventRequest  true  "Event fields"
// @Success      201   {object}  domain.Event
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	imageURL, err := h.saveUploadedImage(c)
	if err != nil {
		return err
	}

	event, err := h.events.Create(c.Request().Context(), ports.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Time:        req.Time,
		ImageURL:    imageURL,
	}, userID)
	if err != nil {
		// The asset was persisted before the store write failed; clean it up
		// before surfacing the error so nothing is orphaned on disk.
		h.discardUploadedImage(imageURL)
		return err
	}

	metrics.EventsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, event)
}

// Update handles PUT /events/:id, owner only. Fields absent from the payload
// keep their stored values.
//
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Event ID"
// @Param        body  body      updateEventRequest  true  "Fields to change"
// @Success      200   {object}  domain.Event
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	imageURL, err := h.saveUploadedImage(c)
	if err != nil {
		return err
	}

	in := ports.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Time:        req.Time,
	}
	if imageURL != "" {
		in.ImageURL = &imageURL
	}

	event, err := h.events.Update(c.Request().Context(), c.Param("id"), in, userID)
	if err != nil {
		h.discardUploadedImage(imageURL)
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// Delete handles DELETE /events/:id, owner only. Registrations cascade and
// the stored image asset is removed.
//
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.events.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}

	metrics.EventsDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "event deleted successfully"})
}

// Register handles POST /events/:id/register.
//
// @Summary      Register for an event
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      201  {object}  registrationResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/register [post]
func (h *EventHandler) Register(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	event, err := h.events.Register(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("register").Inc()
	return c.JSON(http.StatusCreated, registrationResponse{
		Message: "successfully registered for the event",
		Event:   event,
	})
}

// Unregister handles DELETE /events/:id/register.
//
// @Summary      Unregister from an event
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/register [delete]
func (h *EventHandler) Unregister(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.events.Unregister(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("unregister").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "successfully unregistered from the event"})
}

// Attendees handles GET /events/:id/attendees, owner only.
//
// @Summary      List event attendees
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {array}   domain.Attendee
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/attendees [get]
func (h *EventHandler) Attendees(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	attendees, err := h.events.Attendees(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	if attendees == nil {
		attendees = []domain.Attendee{}
	}
	return c.JSON(http.StatusOK, attendees)
}

// RegistrationStatus handles GET /events/:id/registration-status.
//
// @Summary      Check own registration status
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  registrationStatusResponse
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/registration-status [get]
func (h *EventHandler) RegistrationStatus(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	eventID := c.Param("id")
	registered, err := h.events.RegistrationStatus(c.Request().Context(), eventID, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, registrationStatusResponse{
		EventID:      eventID,
		IsRegistered: registered,
	})
}

// UserRegistrations handles GET /events/user/registrations.
//
// @Summary      List events the caller registered for
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.RegisteredEvent
// @Router       /events/user/registrations [get]
func (h *EventHandler) UserRegistrations(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	events, err := h.events.UserRegistrations(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// saveUploadedImage persists the optional "image" part of a multipart request
// and returns its public reference. JSON requests, and multipart requests
// without an image part, yield the empty reference.
func (h *EventHandler) saveUploadedImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// A non-multipart body or a form without an image part means no
		// image; any other failure is a malformed upload.
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", echo.NewHTTPError(http.StatusBadRequest, "malformed upload payload")
	}

	ref, err := h.images.Save(file)
	if err != nil {
		return "", err
	}

	metrics.ImagesStoredTotal.Inc()
	return ref, nil
}

// discardUploadedImage removes an asset persisted for a request that then
// failed. Best-effort: a removal failure is logged, not returned.
func (h *EventHandler) discardUploadedImage(ref string) {
	if ref == "" {
		return
	}
	if err := h.images.Remove(ref); err != nil {
		h.log.Warn().Err(err).Str("image", ref).Msg("failed to remove orphaned upload")
	}
}
