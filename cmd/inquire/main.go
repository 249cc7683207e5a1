package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"property-sync/internal/config"
	"property-sync/internal/domain"
	"property-sync/internal/extract"
	"property-sync/internal/feed"
	"property-sync/internal/inquiry"
	"property-sync/internal/normalize"
)

func main() {
	var (
		propertyID = flag.String("property", "", "property id to inquire about (from a feedsync export)")
		name       = flag.String("name", "", "contact name")
		email      = flag.String("email", "", "contact email")
		phone      = flag.String("phone", "", "contact phone")
		message    = flag.String("message", "", "inquiry message")
	)
	flag.Parse()

	if *propertyID == "" || *name == "" || *email == "" {
		log.Fatal("missing required flags: -property / -name / -email")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := config.Load()
	if cfg.WebhookURL == "" {
		log.Fatal("missing env INQUIRY_WEBHOOK_URL")
	}

	extractOpts := extract.DefaultOptions()
	extractOpts.MaxRecords = cfg.MaxRecords

	loader := &feed.Loader{
		Client:     feed.NewClient(cfg.ProxyPrefixes, cfg.FetchTimeout),
		Endpoints:  feed.Endpoints{SaleURL: cfg.SaleFeedURL, RentURL: cfg.RentFeedURL},
		Extract:    extractOpts,
		Normalizer: normalize.New(normalize.DefaultTables()),
	}

	prop, ok := findProperty(loader.LoadAll(ctx), *propertyID)
	if !ok {
		log.Fatalf("property %s not found in current feeds", *propertyID)
	}

	err := inquiry.Send(ctx, &http.Client{Timeout: 30 * time.Second}, cfg.WebhookURL, inquiry.Inquiry{
		Name:     *name,
		Email:    *email,
		Phone:    *phone,
		Message:  *message,
		Property: prop,
		Source:   "property-sync-cli",
	})
	if err != nil {
		log.Fatalf("inquiry failed: %v", err)
	}

	fmt.Printf("OK: inquiry sent for %s (%s)\n", prop.Title, prop.ID)
}

// findProperty matches by id, ignoring the trailing load timestamp: ids are
// rebuilt every run, so "sale-12" from a previous export still resolves to
// the same position in a fresh load.
func findProperty(results []feed.Result, id string) (domain.Property, bool) {
	for _, r := range results {
		if r.Err != nil {
			log.Printf("WARN: %s feed failed: %v", r.Kind, r.Err)
			continue
		}
		for _, p := range r.Properties {
			if p.ID == id || hasIDPrefix(p.ID, id) {
				return p, true
			}
		}
	}
	return domain.Property{}, false
}

func hasIDPrefix(full, prefix string) bool {
	return len(full) > len(prefix) && full[:len(prefix)] == prefix && full[len(prefix)] == '-'
}
