package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlaceID uniquely identifies a harvested place.
// It wraps uuid.UUID to provide type safety at the domain layer.
type PlaceID uuid.UUID

// Place is one normalized row of the output dataset. All fields except ID,
// RunID and CreatedAt come straight from extraction and are immutable
// afterwards. Lat, Lon and Confidence are kept as formatted strings because
// the dataset schema is flat text ("29.424500", "1.00"); empty coordinates
// mean the source element carried none.
type Place struct {
	// ID is the unique identifier of the row.
	ID PlaceID `json:"id"`
	// RunID identifies the harvest run that produced this row.
	RunID RunID `json:"runId"`

	Name      string `json:"name"`
	Domain    string `json:"domain"`
	City      string `json:"city"`
	Category  string `json:"category"`
	SourceURL string `json:"source_url"`
	Lat       string `json:"lat"`
	Lon       string `json:"lon"`
	// Confidence reflects strength of evidence: "1.00" when a website domain
	// is present, "0.70" when a configured keyword matched the name,
	// "0.50" otherwise.
	Confidence string `json:"confidence"`
	// Notes lists the configured keywords found in the place name, in the
	// form "name_keywords=botox,laser". Empty when none matched.
	Notes string `json:"notes"`

	// CreatedAt is when the row was persisted.
	CreatedAt time.Time `json:"createdAt"`
}

// DedupKey derives the identity used to collapse duplicate rows: the website
// domain when known, otherwise lowercased name and city.
func (p Place) DedupKey() string {
	if p.Domain != "" {
		return p.Domain
	}

	return strings.ToLower(p.Name) + "|" + strings.ToLower(p.City)
}
