package inquiry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"property-sync/internal/domain"
)

func sampleInquiry() Inquiry {
	return Inquiry{
		Name:    "Dana",
		Email:   "dana@example.com",
		Phone:   "+971500000000",
		Message: "Is the office still available?",
		Property: domain.Property{
			ID: "sale-3-1724966400000", Title: "Bay Square Office",
			Price: 1200000, Area: 1500, Community: "Business Bay",
			Category: "Office", Kind: domain.KindSale,
			Usage: domain.UsageCommercial, AgentName: "Chestertons Agent",
			Images: []string{"https://a.example/1.jpg"},
		},
		Source: "property-sync-test",
	}
}

func TestSendPostsFlatJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("Expected flat JSON object, got %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := Send(context.Background(), srv.Client(), srv.URL, sampleInquiry())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got["name"] != "Dana" {
		t.Errorf("Expected contact name in payload, got %v", got["name"])
	}
	if got["property_id"] != "sale-3-1724966400000" {
		t.Errorf("Expected denormalized property id, got %v", got["property_id"])
	}
	if got["property_community"] != "Business Bay" {
		t.Errorf("Expected denormalized community, got %v", got["property_community"])
	}
	if got["listing_kind"] != "sale" {
		t.Errorf("Expected listing kind, got %v", got["listing_kind"])
	}
	if got["source"] != "property-sync-test" {
		t.Errorf("Expected source tag, got %v", got["source"])
	}

	ts, _ := got["submitted_at"].(string)
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("Expected RFC3339 submitted_at, got %q", ts)
	}
}

func TestSendSurfacesWebhookFailure(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "broken hook", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := Send(context.Background(), srv.Client(), srv.URL, sampleInquiry())
	if err == nil {
		t.Fatal("Expected webhook failure to surface")
	}
	if hits != 1 {
		t.Errorf("Expected a single attempt (no retry), got %d", hits)
	}
}

func TestSendRequiresWebhookURL(t *testing.T) {
	err := Send(context.Background(), http.DefaultClient, "", sampleInquiry())
	if err == nil {
		t.Fatal("Expected error for unset webhook URL")
	}
}
