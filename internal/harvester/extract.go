package harvester

import (
	"fmt"
	"net/url"
	"strings"

	"scout/pkg/domain"
	"scout/pkg/overpass"
)

// cityTags are probed in order for an element's city before falling back to
// the configured city.
//
//nolint: gochecknoglobals
var cityTags = []string{"addr:city", "is_in:city", "addr:town", "addr:village"}

// RootDomain parses a website value into its root domain: the lowercased
// hostname with a leading "www." removed. A schemeless value gets an http://
// prefix before parsing. Returns "" when the value is absent or unparseable.
func RootDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}

	return strings.TrimPrefix(host, "www.")
}

// ExtractPlace maps one raw element into a normalized dataset row. The
// second return value is false when the element must be dropped because its
// trimmed name tag is empty. Pure transformation, no side effects.
func ExtractPlace(el overpass.Element, cfg domain.RunConfig) (domain.Place, bool) {
	name := el.Tag("name")
	if name == "" {
		return domain.Place{}, false
	}

	website := el.Tag("website")
	if website == "" {
		website = el.Tag("contact:website")
	}
	rootDomain := RootDomain(website)

	notes := nameKeywordNotes(name, cfg.Keywords)

	confidence := "0.50"
	switch {
	case rootDomain != "":
		confidence = "1.00"
	case notes != "":
		confidence = "0.70"
	}

	lat, lon := coordinates(el)

	return domain.Place{
		Name:       name,
		Domain:     rootDomain,
		City:       city(el, cfg.City),
		Category:   category(el),
		SourceURL:  el.SourceURL(),
		Lat:        lat,
		Lon:        lon,
		Confidence: confidence,
		Notes:      notes,
	}, true
}

// ExtractPlaces maps all elements in query-result order, dropping unnamed
// ones.
func ExtractPlaces(elements []overpass.Element, cfg domain.RunConfig) []domain.Place {
	out := make([]domain.Place, 0, len(elements))
	for _, el := range elements {
		if place, ok := ExtractPlace(el, cfg); ok {
			out = append(out, place)
		}
	}

	return out
}

// category maps the element's tags to the output category: the three known
// combinations first, then whichever of amenity/leisure/shop is present.
func category(el overpass.Element) string {
	switch {
	case el.Tag("leisure") == "spa":
		return "spa"
	case el.Tag("amenity") == "clinic":
		return "clinic"
	case el.Tag("shop") == "beauty":
		return "beauty"
	}

	for _, tag := range []string{"amenity", "leisure", "shop"} {
		if v := el.Tag(tag); v != "" {
			return v
		}
	}

	return ""
}

func city(el overpass.Element, fallback string) string {
	for _, tag := range cityTags {
		if v := el.Tag(tag); v != "" {
			return v
		}
	}

	return fallback
}

// nameKeywordNotes lists the configured keywords occurring case-insensitively
// in the name, as "name_keywords=kw1,kw2". Returns "" when none match.
func nameKeywordNotes(name string, keywords []string) string {
	lower := strings.ToLower(name)

	var matched []string
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	if len(matched) == 0 {
		return ""
	}

	return "name_keywords=" + strings.Join(matched, ",")
}

// coordinates formats the element's own lat/lon, else its center, to six
// decimal places. Both are empty when the element carries neither.
func coordinates(el overpass.Element) (lat, lon string) {
	switch {
	case el.Lat != nil && el.Lon != nil:
		return fmt.Sprintf("%.6f", *el.Lat), fmt.Sprintf("%.6f", *el.Lon)
	case el.Center != nil:
		return fmt.Sprintf("%.6f", el.Center.Lat), fmt.Sprintf("%.6f", el.Center.Lon)
	}

	return "", ""
}
