package export

import (
	"encoding/xml"
	"fmt"
	"os"

	"property-sync/internal/domain"
)

/*
Output shape:

<PropertyList>
  <Property id="sale-0-1724966400000">
    <Title>...</Title>
    <ListingKind>sale</ListingKind>
    <UsageClass>commercial</UsageClass>
    <Price>500000</Price>
    <AreaSqft>900</AreaSqft>
    <Bedrooms>0</Bedrooms>
    <Community>Barsha Heights</Community>
    <Category>Retail Shop</Category>
    <AgentName>...</AgentName>
    <Images>
      <Image>https://...</Image>
    </Images>
  </Property>
</PropertyList>
*/

type xmlPropertyList struct {
	XMLName    xml.Name      `xml:"PropertyList"`
	Properties []xmlProperty `xml:"Property"`
}

type xmlProperty struct {
	ID          string    `xml:"id,attr"`
	Title       string    `xml:"Title"`
	ListingKind string    `xml:"ListingKind"`
	UsageClass  string    `xml:"UsageClass"`
	Price       float64   `xml:"Price"`
	AreaSqft    float64   `xml:"AreaSqft"`
	Bedrooms    int       `xml:"Bedrooms"`
	Community   string    `xml:"Community"`
	Category    string    `xml:"Category,omitempty"`
	AgentName   string    `xml:"AgentName,omitempty"`
	Images      xmlImages `xml:"Images"`
}

type xmlImages struct {
	Images []string `xml:"Image"`
}

// WritePropertyXML writes the property list as a single XML document.
func WritePropertyXML(outPath string, props []domain.Property) error {
	out := xmlPropertyList{
		Properties: make([]xmlProperty, 0, len(props)),
	}
	for _, p := range props {
		out.Properties = append(out.Properties, xmlProperty{
			ID:          p.ID,
			Title:       p.Title,
			ListingKind: string(p.Kind),
			UsageClass:  string(p.Usage),
			Price:       p.Price,
			AreaSqft:    p.Area,
			Bedrooms:    p.Bedrooms,
			Community:   p.Community,
			Category:    p.Category,
			AgentName:   p.AgentName,
			Images:      xmlImages{Images: p.Images},
		})
	}

	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal xml: %w", err)
	}
	if err := os.WriteFile(outPath, append([]byte(xml.Header), b...), 0o644); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}
	return nil
}
