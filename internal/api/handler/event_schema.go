package handler

import "github.com/gatherly/events-api/internal/core/domain"

// createEventRequest binds from JSON bodies and from multipart form fields
// when an image accompanies the event.
type createEventRequest struct {
	Title       string `json:"title"       form:"title"       validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	Date        string `json:"date"        form:"date"        validate:"required"`
	Location    string `json:"location"    form:"location"    validate:"required"`
	Time        string `json:"time"        form:"time"`
}

// updateEventRequest models partial updates: a field absent from the payload
// stays nil and the stored value is kept, so an explicit empty string remains
// distinguishable from "not provided".
type updateEventRequest struct {
	Title       *string `json:"title"       form:"title"`
	Description *string `json:"description" form:"description"`
	Date        *string `json:"date"        form:"date"`
	Location    *string `json:"location"    form:"location"`
	Time        *string `json:"time"        form:"time"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type registrationResponse struct {
	Message string        `json:"message"`
	Event   *domain.Event `json:"event,omitempty"`
}

type registrationStatusResponse struct {
	EventID      string `json:"eventId"`
	IsRegistered bool   `json:"isRegistered"`
}
