// Package types contains the JSON request and response shapes shared by the
// HTTP API and its clients.
package types

import (
	"fmt"
	"time"

	"github.com/okian/fitcheck/internal/domain/model"
)

// Wear acknowledgement statuses.
const (
	StatusAccepted  = "accepted"
	StatusDuplicate = "duplicate"
)

// ItemRequest is the body of POST /api/clothing.
type ItemRequest struct {
	Type       string   `json:"type"`
	Name       string   `json:"name"`
	Brand      string   `json:"brand,omitempty"`
	PrimaryHex string   `json:"primaryHex"`
	Palette    []string `json:"palette,omitempty"`
	ImageURLs  []string `json:"imageUrls,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// ToItem converts the request into an unsaved item.
func (r ItemRequest) ToItem() (model.ClothingItem, error) {
	slot, err := model.ParseSlot(r.Type)
	if err != nil {
		return model.ClothingItem{}, err
	}
	return model.ClothingItem{
		Slot:       slot,
		Name:       r.Name,
		Brand:      r.Brand,
		PrimaryHex: r.PrimaryHex,
		Palette:    r.Palette,
		ImageURLs:  r.ImageURLs,
		Tags:       r.Tags,
	}, nil
}

// WearRequest is the body of POST /api/planner/wear and POST /api/history.
type WearRequest struct {
	EventID      string `json:"eventId,omitempty"`
	TopID        string `json:"topId"`
	BottomID     string `json:"bottomId"`
	HarmonyScore int    `json:"harmonyScore"`
	DripScore    int    `json:"dripScore"`
	// Date is an optional RFC3339 wear time; empty means now.
	Date string `json:"date,omitempty"`
}

// ToEvent converts the request into a wear event.
func (r WearRequest) ToEvent() (model.WearEvent, error) {
	ev := model.WearEvent{
		EventID:      r.EventID,
		TopID:        r.TopID,
		BottomID:     r.BottomID,
		HarmonyScore: r.HarmonyScore,
		DripScore:    r.DripScore,
	}
	if r.Date != "" {
		at, err := time.Parse(time.RFC3339, r.Date)
		if err != nil {
			return model.WearEvent{}, fmt.Errorf("%w: date must be RFC3339", model.ErrInvalidWear)
		}
		ev.OccurredAt = at
	}
	return ev, ev.Validate()
}

// WearAck acknowledges a queued wear.
type WearAck struct {
	Status    string `json:"status"`
	EventID   string `json:"eventId"`
	Duplicate bool   `json:"duplicate"`
}

// RatingRequest is the body of POST /api/history/{id}/rating.
type RatingRequest struct {
	Rating int `json:"rating"`
}

// ErrorResponse is the body of every non-2xx response. Tops and Bottoms are
// set for insufficient_inventory.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Tops    *int   `json:"tops,omitempty"`
	Bottoms *int   `json:"bottoms,omitempty"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
