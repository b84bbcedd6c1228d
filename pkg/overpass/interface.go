// Package overpass defines the interface and data types used to run
// Overpass QL queries against the OpenStreetMap Overpass API.
package overpass

import (
	"context"
	"fmt"
	"strings"
)

// Element is one raw result element from the Overpass API. Coordinates are
// pointers because nodes carry lat/lon directly while ways only carry a
// computed center (requested with "out center").
type Element struct {
	// Type is the element kind, "node" or "way".
	Type string `json:"type"`
	// ID is the OpenStreetMap element identifier.
	ID int64 `json:"id"`

	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center,omitempty"`

	// Tags is the free-form key/value mapping of the element. May be absent.
	Tags map[string]string `json:"tags,omitempty"`
}

// Tag returns the trimmed value of the named tag, or "" when the tag (or the
// whole mapping) is absent.
func (e Element) Tag(name string) string {
	return strings.TrimSpace(e.Tags[name])
}

// SourceURL returns the canonical link to the element on openstreetmap.org.
func (e Element) SourceURL() string {
	return fmt.Sprintf("https://www.openstreetmap.org/%s/%d", e.Type, e.ID)
}

// Response is the decoded body of a successful Overpass query. A missing or
// empty "elements" field decodes to a nil slice; the caller treats that as
// zero results rather than an error.
type Response struct {
	Elements []Element `json:"elements"`
}

// Client is the abstraction for the Overpass API. Implementations deliver a
// query to one of a set of endpoints and return the decoded response.
//
//go:generate mockgen -package mockoverpass -source=interface.go -destination=mock/mockoverpass.go *
type Client interface {
	// Query posts the Overpass QL text and returns the decoded response.
	Query(ctx context.Context, query string) (*Response, error)
}
