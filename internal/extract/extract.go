package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"
)

// Upstream feeds disagree on almost every tag name, so a listing is "any
// element that looks like one" and fields are looked up by an ordered list
// of synonyms, first non-empty match wins. This package only lifts the raw
// element trees out of the document; normalize decides what they mean.

// Options controls record selection and parse cost.
type Options struct {
	// RecordTags are the element names treated as one listing each.
	RecordTags []string

	// MaxRecords bounds how many listing elements are collected from a
	// single document. Huge feeds exist; the bound is a cost safeguard,
	// not a correctness rule.
	MaxRecords int

	// ChunkSize is how many records are collected between cancellation
	// checks during a bulk parse.
	ChunkSize int
}

// DefaultOptions matches the tag variants seen across the known feeds.
func DefaultOptions() Options {
	return Options{
		RecordTags: []string{"UnitDTO", "Property", "property", "PropertyInfo"},
		MaxRecords: 300,
		ChunkSize:  50,
	}
}

// Record is one listing element with its full subtree, positionally indexed
// in document order.
type Record struct {
	Index int
	root  *elem
}

type elem struct {
	name     string
	text     string
	children []*elem
}

// Records parses a feed document into listing records. A document that fails
// to parse as XML yields (nil, error); callers treat that as an empty feed.
// Cancellation is checked every Options.ChunkSize records, returning whatever
// was collected so far together with ctx.Err().
func Records(ctx context.Context, raw []byte, opts Options) ([]Record, error) {
	if len(opts.RecordTags) == 0 {
		opts.RecordTags = DefaultOptions().RecordTags
	}
	if opts.MaxRecords <= 0 {
		opts.MaxRecords = DefaultOptions().MaxRecords
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultOptions().ChunkSize
	}

	dec := xml.NewDecoder(bytes.NewReader(raw))

	var out []Record
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			// Malformed document: degrade to "no records".
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok || !nameMatches(start.Name.Local, opts.RecordTags) {
			continue
		}

		root, err := readElem(dec, start)
		if err != nil {
			return nil, err
		}
		out = append(out, Record{Index: len(out), root: root})

		if len(out) >= opts.MaxRecords {
			return out, nil
		}
		if len(out)%opts.ChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return out, err
			}
		}
	}
}

// readElem consumes tokens through the matching end element, building the
// subtree. Character data is concatenated and trimmed per element.
func readElem(dec *xml.Decoder, start xml.StartElement) (*elem, error) {
	e := &elem{name: start.Name.Local}
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := readElem(dec, t)
			if err != nil {
				return nil, err
			}
			e.children = append(e.children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			e.text = strings.TrimSpace(text.String())
			return e, nil
		}
	}
}

// First returns the first non-empty text content among the candidate tag
// names, in candidate order. For each candidate, direct children win over
// nested descendants. Missing everywhere returns "".
func (r Record) First(names ...string) string {
	if r.root == nil {
		return ""
	}
	for _, name := range names {
		for _, c := range r.root.children {
			if strings.EqualFold(c.name, name) && c.text != "" {
				return c.text
			}
		}
		if v := firstDescendant(r.root, name); v != "" {
			return v
		}
	}
	return ""
}

// Texts collects, in document order, the non-empty text of every descendant
// whose tag matches any candidate name.
func (r Record) Texts(names ...string) []string {
	if r.root == nil {
		return nil
	}
	var out []string
	collectTexts(r.root, names, &out)
	return out
}

// Container returns the first descendant element matching any candidate name
// as a scoped Record, so callers can run Texts lookups inside it (e.g. the
// Images wrapper).
func (r Record) Container(names ...string) (Record, bool) {
	if r.root == nil {
		return Record{}, false
	}
	for _, name := range names {
		if e := findDescendant(r.root, name); e != nil {
			return Record{Index: r.Index, root: e}, true
		}
	}
	return Record{}, false
}

func nameMatches(name string, candidates []string) bool {
	for _, c := range candidates {
		if name == c {
			return true
		}
	}
	return false
}

func firstDescendant(e *elem, name string) string {
	for _, c := range e.children {
		if strings.EqualFold(c.name, name) && c.text != "" {
			return c.text
		}
		if v := firstDescendant(c, name); v != "" {
			return v
		}
	}
	return ""
}

func findDescendant(e *elem, name string) *elem {
	for _, c := range e.children {
		if strings.EqualFold(c.name, name) {
			return c
		}
		if d := findDescendant(c, name); d != nil {
			return d
		}
	}
	return nil
}

func collectTexts(e *elem, names []string, out *[]string) {
	for _, c := range e.children {
		for _, name := range names {
			if strings.EqualFold(c.name, name) && c.text != "" {
				*out = append(*out, c.text)
				break
			}
		}
		collectTexts(c, names, out)
	}
}
