package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"property-sync/internal/config"
	"property-sync/internal/domain"
	"property-sync/internal/export"
	"property-sync/internal/extract"
	"property-sync/internal/feed"
	"property-sync/internal/filter"
	"property-sync/internal/group"
	"property-sync/internal/normalize"
	"property-sync/internal/sftpclient"
)

func main() {
	var (
		outPath = flag.String("out", "out/properties.csv", "output path")
		format  = flag.String("format", "csv", "output format: csv or xml")
		upload  = flag.Bool("sftp", false, "upload the generated file via SFTP")

		search   = flag.String("search", "", "case-insensitive term matched against title/community/category")
		minPrice = flag.Float64("min-price", 0, "minimum price (inclusive)")
		maxPrice = flag.Float64("max-price", 0, "maximum price (inclusive, 0 = unbounded)")
		minArea  = flag.Float64("min-area", 0, "minimum area in sqft (inclusive)")
		maxArea  = flag.Float64("max-area", 0, "maximum area in sqft (inclusive, 0 = unbounded)")
		propType = flag.String("type", "any", "property type filter (category substring)")

		maxRecords = flag.Int("max-records", 0, "cap on records examined per feed (0 = config default)")
	)
	flag.Parse()

	rootCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := config.Load()

	start := time.Now()
	defer func() {
		log.Printf("job finished in %s", time.Since(start))
	}()

	if dir := filepath.Dir(*outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	extractOpts := extract.DefaultOptions()
	extractOpts.MaxRecords = cfg.MaxRecords
	if *maxRecords > 0 {
		extractOpts.MaxRecords = *maxRecords
	}

	tables := normalize.DefaultTables()
	loader := &feed.Loader{
		Client:     feed.NewClient(cfg.ProxyPrefixes, cfg.FetchTimeout),
		Endpoints:  feed.Endpoints{SaleURL: cfg.SaleFeedURL, RentURL: cfg.RentFeedURL},
		Extract:    extractOpts,
		Normalizer: normalize.New(tables),
	}

	// Both kinds load concurrently; a failed kind degrades to zero
	// properties for that kind, never kills the run.
	var all []domain.Property
	for _, r := range loader.LoadAll(rootCtx) {
		if r.Err != nil {
			log.Printf("WARN: %s feed failed: %v", r.Kind, r.Err)
			continue
		}
		log.Printf("%s feed: %d properties", r.Kind, len(r.Properties))
		all = append(all, r.Properties...)
	}

	criteria := filter.Criteria{
		Search:       *search,
		PriceMin:     *minPrice,
		PriceMax:     *maxPrice,
		AreaMin:      *minArea,
		AreaMax:      *maxArea,
		PropertyType: *propType,
	}
	filtered := criteria.Apply(all)

	for community, props := range group.ByCommunity(filtered, tables.TargetCommunities) {
		log.Printf("%s: %d properties", community, len(props))
	}

	switch *format {
	case "csv":
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := export.WritePropertyCSV(f, filtered); err != nil {
			f.Close()
			log.Fatal(err)
		}
		if err := f.Close(); err != nil {
			log.Fatal(err)
		}
	case "xml":
		if err := export.WritePropertyXML(*outPath, filtered); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("unknown format %q (want csv or xml)", *format)
	}

	log.Printf("wrote %d of %d properties to %s", len(filtered), len(all), *outPath)

	if *upload {
		upCfg := sftpclient.Config{
			Host:                  cfg.SFTPHost,
			Port:                  cfg.SFTPPort,
			User:                  cfg.SFTPUser,
			Pass:                  cfg.SFTPPass,
			RemoteDir:             cfg.SFTPDir,
			InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		}

		upCtx, upCancel := context.WithTimeout(rootCtx, 2*time.Minute)
		defer upCancel()

		if err := sftpclient.UploadFile(upCtx, upCfg, *outPath, filepath.Base(*outPath)); err != nil {
			log.Fatal(err)
		}
		log.Printf("uploaded to sftp://%s:%d%s/%s", upCfg.Host, upCfg.Port, upCfg.RemoteDir, filepath.Base(*outPath))
	}
}
