package harvester_test

import (
	"regexp"
	"strings"
	"testing"

	"scout/internal/harvester"
	"scout/pkg/domain"

	"github.com/stretchr/testify/require"
)

func TestKeywordPattern_escapingRoundTrips(t *testing.T) {
	keywords := []string{"med spa", "a.b+c", "(laser)", "inject?", "c++ clinic", "a|b", `back\slash`}

	pattern := harvester.KeywordPattern(keywords)
	re, err := regexp.Compile(pattern)
	require.NoError(t, err, "built pattern must compile")

	for _, kw := range keywords {
		require.True(t, re.MatchString(kw), "pattern should match literal keyword %q", kw)
		require.True(t, re.MatchString(strings.ToUpper(kw)), "pattern should match %q case-insensitively", kw)
	}

	// the escaped alternatives must not behave as regex syntax
	require.False(t, re.MatchString("axb"), "escaped '.' must not match any character")
	require.False(t, re.MatchString("a"), "escaped '|' must not split the keyword")
}

func TestKeywordPattern_trimsAndDefaults(t *testing.T) {
	pattern := harvester.KeywordPattern([]string{" botox ", "", "  "})
	require.Equal(t, "(?i)(botox)", pattern)

	def := harvester.KeywordPattern(nil)
	require.True(t, strings.HasPrefix(def, "(?i)("), "default pattern keeps the case-insensitive marker")
	require.Contains(t, def, "med spa")
	require.Contains(t, def, "hydrafacial")
}

func TestBuildQuery(t *testing.T) {
	bbox := domain.BoundingBox{South: 29.1, West: -98.85, North: 29.75, East: -98.1}
	query := harvester.BuildQuery(bbox, "(?i)(botox)", 60)

	require.Contains(t, query, "[out:json][timeout:60];")
	require.Contains(t, query, "out center tags;")

	bboxExpr := "(29.1,-98.85,29.75,-98.1)"
	for _, clause := range []string{
		`node["leisure"="spa"]`,
		`way["leisure"="spa"]`,
		`node["shop"="beauty"]`,
		`way["shop"="beauty"]`,
		`node["amenity"="clinic"]`,
		`way["amenity"="clinic"]`,
	} {
		require.Contains(t, query, clause+`["name"~"(?i)(botox)"]`+bboxExpr, "missing clause %s", clause)
	}
}
