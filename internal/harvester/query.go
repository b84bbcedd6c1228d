package harvester

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"scout/internal/input"
	"scout/pkg/domain"
)

// queryTemplate is the fixed Overpass QL query: six clauses, node/way ×
// {leisure=spa, shop=beauty, amenity=clinic}, each filtered by the name
// pattern and the bounding box. "out center" makes ways carry a computed
// center coordinate.
const queryTemplate = `[out:json][timeout:%d];
(
  node["leisure"="spa"]["name"~"%[2]s"](%[3]s);
  way["leisure"="spa"]["name"~"%[2]s"](%[3]s);
  node["shop"="beauty"]["name"~"%[2]s"](%[3]s);
  way["shop"="beauty"]["name"~"%[2]s"](%[3]s);
  node["amenity"="clinic"]["name"~"%[2]s"](%[3]s);
  way["amenity"="clinic"]["name"~"%[2]s"](%[3]s);
);
out center tags;`

// KeywordPattern builds the case-insensitive regex alternation embedded in
// the query's name filters. Keywords are trimmed, empties dropped, and each
// one escaped so it matches its literal text; when nothing survives
// filtering, the built-in default list is used. The pattern is spliced into a
// textual query interpreted by the remote server, so the escaping here is the
// only thing standing between user input and query injection.
func KeywordPattern(keywords []string) string {
	escaped := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			escaped = append(escaped, regexp.QuoteMeta(kw))
		}
	}
	if len(escaped) == 0 {
		for _, kw := range input.DefaultKeywords {
			escaped = append(escaped, regexp.QuoteMeta(kw))
		}
	}

	return "(?i)(" + strings.Join(escaped, "|") + ")"
}

// BuildQuery interpolates the name pattern and bounding box into the query
// template. timeout is the timeout in seconds declared to the Overpass
// server inside the query itself.
func BuildQuery(bbox domain.BoundingBox, pattern string, timeout int) string {
	coords := strings.Join([]string{
		strconv.FormatFloat(bbox.South, 'f', -1, 64),
		strconv.FormatFloat(bbox.West, 'f', -1, 64),
		strconv.FormatFloat(bbox.North, 'f', -1, 64),
		strconv.FormatFloat(bbox.East, 'f', -1, 64),
	}, ",")

	return fmt.Sprintf(queryTemplate, timeout, pattern, coords)
}
