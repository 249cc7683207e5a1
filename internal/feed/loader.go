package feed

import (
	"context"
	"log"

	"property-sync/internal/concurrency"
	"property-sync/internal/domain"
	"property-sync/internal/extract"
	"property-sync/internal/normalize"
)

// Endpoints are the per-kind upstream feed URLs.
type Endpoints struct {
	SaleURL string
	RentURL string
}

// Result is one feed kind's load outcome. Err is set only when the fetch
// itself failed on every route; an empty Properties slice with a nil Err is
// a legitimately empty feed, not a failure.
type Result struct {
	Kind       domain.ListingKind
	Properties []domain.Property
	Err        error
}

// Loader runs fetch -> extract -> normalize for feed kinds.
type Loader struct {
	Client     *Client
	Endpoints  Endpoints
	Extract    extract.Options
	Normalizer *normalize.Normalizer
}

// Load runs the pipeline for one kind. A document that fails to parse as
// XML degrades to zero properties (logged), matching how a feed with no
// usable records behaves; fetch exhaustion is a real error.
func (l *Loader) Load(ctx context.Context, kind domain.ListingKind) ([]domain.Property, error) {
	feedURL := l.Endpoints.SaleURL
	if kind == domain.KindRent {
		feedURL = l.Endpoints.RentURL
	}

	raw, err := l.Client.FetchRaw(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	recs, err := extract.Records(ctx, raw, l.Extract)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		log.Printf("feed: %s document not parseable as XML, treating as empty: %v", kind, err)
		return []domain.Property{}, nil
	}

	return l.Normalizer.NormalizeAll(recs, kind), nil
}

// LoadAll loads sale and rent concurrently. Each kind is its own writer and
// its own failure domain: one kind's error never suppresses the other's
// properties.
func (l *Loader) LoadAll(ctx context.Context) []Result {
	kinds := []domain.ListingKind{domain.KindSale, domain.KindRent}

	results, _ := concurrency.ProcessParallel(ctx, kinds,
		concurrency.ParallelOptions{MaxWorkers: len(kinds)},
		func(ctx context.Context, _ int, kind domain.ListingKind) (Result, error) {
			props, err := l.Load(ctx, kind)
			return Result{Kind: kind, Properties: props, Err: err}, nil
		})

	return results
}
