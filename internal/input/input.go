// Package input parses and normalizes the loosely-typed run input document.
// Two shapes are accepted: a nested {bbox:{south,...}, keywords:[...], city}
// object and a flat {bbox_south,..., keyword_list, city} object. Numeric
// fields may arrive as JSON numbers or numeric strings. Normalization
// resolves both into one canonical domain.RunConfig.
package input

import (
	"encoding/json"
	"strconv"
	"strings"

	"scout/pkg/domain"
	"scout/pkg/serrors"
)

// Documented defaults applied when a field is absent or non-numeric. The
// bounding box covers the San Antonio metro area.
const (
	DefaultSouth = 29.10
	DefaultWest  = -98.85
	DefaultNorth = 29.75
	DefaultEast  = -98.10

	DefaultCity = "San Antonio"
)

// DefaultKeywords is the built-in keyword list used when the input provides
// none.
//
//nolint: gochecknoglobals
var DefaultKeywords = []string{"med spa", "medspa", "aesthetic", "inject", "botox", "laser", "hydrafacial"}

// Coordinate is a bounding box coordinate that tolerates both JSON numbers
// and numeric strings. A value that is absent or fails to parse stays unset
// and resolves to its documented default.
type Coordinate struct {
	value float64
	set   bool
}

// UnmarshalJSON accepts a number or a numeric string. Anything else leaves
// the coordinate unset rather than failing the whole document.
func (c *Coordinate) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		c.value, c.set = f, true

		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			c.value, c.set = f, true
		}
	}

	return nil
}

// Or returns the coordinate value, or def when unset.
func (c Coordinate) Or(def float64) float64 {
	if c.set {
		return c.value
	}

	return def
}

// BBox is the nested bounding box shape.
type BBox struct {
	South Coordinate `json:"south"`
	West  Coordinate `json:"west"`
	North Coordinate `json:"north"`
	East  Coordinate `json:"east"`
}

// Document is the raw input document covering both accepted shapes. The
// nested fields win when present; the flat fields are the fallback shape.
type Document struct {
	BBox     *BBox    `json:"bbox,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	City     string   `json:"city,omitempty"`

	BBoxSouth   Coordinate `json:"bbox_south,omitempty"`
	BBoxWest    Coordinate `json:"bbox_west,omitempty"`
	BBoxNorth   Coordinate `json:"bbox_north,omitempty"`
	BBoxEast    Coordinate `json:"bbox_east,omitempty"`
	KeywordList string     `json:"keyword_list,omitempty"`

	// raw holds the bytes the document was parsed from. Coordinate is
	// lossy on purpose (tolerant decoding discards the original
	// representation), so echoing the document means echoing these bytes,
	// never re-marshaling the struct.
	raw json.RawMessage
}

// Raw returns the original bytes the document was parsed from. Nil for a
// zero-value document, e.g. when no input file was provided.
func (d Document) Raw() json.RawMessage {
	return d.raw
}

// Parse decodes a raw input document, retaining the original bytes for
// echoing into the run record.
func Parse(b []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return Document{}, serrors.Wrap(serrors.ErrInvalidInput, err, "could not decode input document")
	}
	doc.raw = append(json.RawMessage(nil), b...)

	return doc, nil
}

// Normalize resolves the document into the canonical run configuration and
// validates the bounding box ranges. It has no side effects beyond
// validation.
func (d Document) Normalize() (domain.RunConfig, error) {
	bbox := d.resolveBBox()
	if err := validateBBox(bbox); err != nil {
		return domain.RunConfig{}, err
	}

	return domain.RunConfig{
		BBox:     bbox,
		Keywords: d.resolveKeywords(),
		City:     d.resolveCity(),
	}, nil
}

func (d Document) resolveBBox() domain.BoundingBox {
	if d.BBox != nil {
		return domain.BoundingBox{
			South: d.BBox.South.Or(DefaultSouth),
			West:  d.BBox.West.Or(DefaultWest),
			North: d.BBox.North.Or(DefaultNorth),
			East:  d.BBox.East.Or(DefaultEast),
		}
	}

	return domain.BoundingBox{
		South: d.BBoxSouth.Or(DefaultSouth),
		West:  d.BBoxWest.Or(DefaultWest),
		North: d.BBoxNorth.Or(DefaultNorth),
		East:  d.BBoxEast.Or(DefaultEast),
	}
}

func (d Document) resolveKeywords() []string {
	if kws := cleanKeywords(d.Keywords); len(kws) > 0 {
		return kws
	}
	if kws := cleanKeywords(strings.Split(d.KeywordList, ",")); len(kws) > 0 {
		return kws
	}

	return append([]string(nil), DefaultKeywords...)
}

func (d Document) resolveCity() string {
	if city := strings.TrimSpace(d.City); city != "" {
		return city
	}

	return DefaultCity
}

func cleanKeywords(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, kw := range raw {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}

	return out
}

func validateBBox(b domain.BoundingBox) error {
	checks := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"south", b.South, -90, 90},
		{"north", b.North, -90, 90},
		{"west", b.West, -180, 180},
		{"east", b.East, -180, 180},
	}
	for _, c := range checks {
		if c.value < c.min || c.value > c.max {
			return serrors.With(serrors.ErrInvalidInput,
				"bbox %s out of range: %v not in [%v, %v]", c.name, c.value, c.min, c.max)
		}
	}

	return nil
}
