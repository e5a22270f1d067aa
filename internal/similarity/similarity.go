// Package similarity scores how much an extracted value can be trusted,
// optionally against the value the applicant declared.
package similarity

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/strutil/metrics"
)

const (
	perCharConfidence = 5
	baseCeiling       = 70
	matchBudget       = 30
)

// levenshtein is read-only after init and safe for concurrent use.
var levenshtein = newLevenshtein()

func newLevenshtein() *metrics.Levenshtein {
	m := metrics.NewLevenshtein()
	m.CaseSensitive = true
	m.InsertCost = 1
	m.DeleteCost = 1
	m.ReplaceCost = 1
	return m
}

// Distance is the unit-cost Levenshtein distance between a and b, in runes.
func Distance(a, b string) int {
	return levenshtein.Distance(a, b)
}

// Similarity compares a and b case-insensitively and returns a value in
// [0,1], where 1 means identical.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return float64(longest-Distance(a, b)) / float64(longest)
}

// Confidence scores extracted on a 0-100 scale. Length earns up to 70
// points; the remaining 30 come from similarity to expected when one is
// given, otherwise from the share of plausible document characters.
func Confidence(extracted, expected string) int {
	if extracted == "" {
		return 0
	}
	base := math.Min(float64(utf8.RuneCountInString(extracted)*perCharConfidence), baseCeiling)

	var ratio float64
	if strings.TrimSpace(expected) != "" {
		ratio = Similarity(extracted, expected)
	} else {
		ratio = quality(extracted)
	}
	return clamp(int(math.Round(base + ratio*matchBudget)))
}

// quality is the fraction of runes that could plausibly appear in a
// document field. OCR noise such as stray symbols lowers it.
func quality(s string) float64 {
	total, good := 0, 0
	for _, r := range s {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || strings.ContainsRune("-/.<", r) {
			good++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(good) / float64(total)
}

func clamp(v int) int {
	return min(max(v, 0), 100)
}
