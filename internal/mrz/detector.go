// Package mrz finds and decodes the machine-readable zone of identity
// documents. Only the two-line TD3 passport layout is decoded.
package mrz

import (
	"regexp"
	"strings"
)

const (
	// Filler pads and separates MRZ fields.
	Filler = '<'

	minLineLen = 30
	maxLineLen = 44
)

var (
	nonMRZChars = regexp.MustCompile(`[^A-Z0-9<]`)
	mrzLineRe   = regexp.MustCompile(`^[A-Z0-9<]{30,44}$`)
)

// SplitLines breaks an OCR text blob into lines, accepting both \n and \r\n.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// DetectLines returns the OCR lines that look like MRZ lines, in input order.
// Each line is reduced to the MRZ alphabet before its length is checked.
func DetectLines(lines []string) []string {
	var out []string
	for _, ln := range lines {
		cleaned := nonMRZChars.ReplaceAllString(strings.TrimSpace(ln), "")
		if len(cleaned) < minLineLen || len(cleaned) > maxLineLen {
			continue
		}
		if mrzLineRe.MatchString(cleaned) {
			out = append(out, cleaned)
		}
	}
	return out
}
