package inquiry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"property-sync/internal/domain"
	"property-sync/internal/httpx"
)

// Inquiry is one contact request about a specific property.
type Inquiry struct {
	Name    string
	Email   string
	Phone   string
	Message string

	Property domain.Property

	// Source tags which surface the inquiry came from.
	Source string
}

// submission is the flat JSON shape the webhook expects: contact fields
// plus the selected property's denormalized fields.
type submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`

	PropertyID        string  `json:"property_id"`
	PropertyTitle     string  `json:"property_title"`
	PropertyPrice     float64 `json:"property_price"`
	PropertyArea      float64 `json:"property_area"`
	PropertyCommunity string  `json:"property_community"`
	PropertyCategory  string  `json:"property_category"`
	ListingKind       string  `json:"listing_kind"`
	AgentName         string  `json:"agent_name"`

	SubmittedAt string `json:"submitted_at"`
	Source      string `json:"source"`
}

// Send posts the inquiry to the webhook. Single attempt, no retry; the
// response body is ignored. A non-2xx or transport failure comes back as an
// error the caller reports generically.
func Send(ctx context.Context, client *http.Client, webhookURL string, inq Inquiry) error {
	if webhookURL == "" {
		return fmt.Errorf("inquiry: webhook URL not configured")
	}

	p := inq.Property
	payload := submission{
		Name:    inq.Name,
		Email:   inq.Email,
		Phone:   inq.Phone,
		Message: inq.Message,

		PropertyID:        p.ID,
		PropertyTitle:     p.Title,
		PropertyPrice:     p.Price,
		PropertyArea:      p.Area,
		PropertyCommunity: p.Community,
		PropertyCategory:  p.Category,
		ListingKind:       string(p.Kind),
		AgentName:         p.AgentName,

		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
		Source:      inq.Source,
	}

	_, _, err := httpx.SendJSON(ctx, client, http.MethodPost, webhookURL, payload, httpx.SingleAttempt())
	if err != nil {
		return fmt.Errorf("inquiry: submit: %w", err)
	}
	return nil
}
