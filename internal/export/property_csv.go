package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"property-sync/internal/domain"
)

// Downstream import template. Keep header order EXACT.
var propertyHeader = []string{
	"PROPERTY_ID",
	"TITLE",
	"LISTING_KIND",
	"USAGE_CLASS",
	"PRICE",
	"AREA_SQFT",
	"BEDROOMS",
	"COMMUNITY",
	"CATEGORY",
	"AGENT_NAME",
	"IMAGE_URLS",
}

// WritePropertyCSV writes properties in the downstream import format.
func WritePropertyCSV(w io.Writer, props []domain.Property) error {
	cw := csv.NewWriter(w)
	// match typical templates
	cw.UseCRLF = true

	if err := cw.Write(propertyHeader); err != nil {
		return err
	}
	for _, p := range props {
		if err := cw.Write(toPropertyRow(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toPropertyRow(p domain.Property) []string {
	return []string{
		p.ID,
		p.Title,
		string(p.Kind),
		string(p.Usage),
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		strconv.FormatFloat(p.Area, 'f', -1, 64),
		strconv.Itoa(p.Bedrooms),
		p.Community,
		p.Category,
		p.AgentName,
		// avoid commas to keep CSV clean
		strings.Join(p.Images, " | "),
	}
}
