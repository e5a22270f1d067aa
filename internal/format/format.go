// Package format renders a verification result for terminals and pipes.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"docverify/internal/models"
)

const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// JSON renders the result with the same shape the HTTP API returns.
func JSON(r models.VerificationResult) (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(b) + "\n", nil
}

// TextFormatter renders a human-readable report.
type TextFormatter struct {
	colors map[string]*color.Color
}

func NewTextFormatter(noColor bool) *TextFormatter {
	f := &TextFormatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
	for _, c := range f.colors {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return f
}

func (f *TextFormatter) Format(r models.VerificationResult) string {
	var b strings.Builder

	f.colors["white"].Fprintln(&b, "DOCUMENT VERIFICATION")
	fmt.Fprintf(&b, "Overall confidence: %s\n\n", f.confidence(r.OverallConfidence))

	f.colors["cyan"].Fprintln(&b, "Extracted fields")
	for _, id := range models.ScoredFields {
		field := r.ExtractedData.Field(id)
		value := field.Value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "  %-16s %-30s %s\n", id, value, f.confidence(field.Confidence))
	}
	for _, line := range []string{r.ExtractedData.MRZLine1, r.ExtractedData.MRZLine2, r.ExtractedData.MRZLine3} {
		if line != "" {
			fmt.Fprintf(&b, "  %-16s %s\n", "mrz", line)
		}
	}

	b.WriteString("\n")
	f.colors["cyan"].Fprintln(&b, "Validation checks")
	if len(r.ValidationChecks) == 0 {
		b.WriteString("  none\n")
	}
	for _, c := range r.ValidationChecks {
		fmt.Fprintf(&b, "  %s %-24s %s\n", f.status(c.Status), c.Field, c.Message)
	}

	b.WriteString("\n")
	f.colors["cyan"].Fprintln(&b, "Eligibility")
	a := r.EligibilityAssessment
	verdict := f.colors["red"].Sprint("NOT ELIGIBLE")
	if a.Eligible {
		verdict = f.colors["green"].Sprint("ELIGIBLE")
	}
	fmt.Fprintf(&b, "  %s (confidence %d%%)\n", verdict, a.Confidence)
	for _, reason := range a.Reasons {
		fmt.Fprintf(&b, "  - %s\n", reason)
	}
	if len(a.RequiredDocuments) > 0 {
		b.WriteString("  Required documents:\n")
		for _, d := range a.RequiredDocuments {
			fmt.Fprintf(&b, "    * %s\n", d)
		}
	}

	b.WriteString("\n")
	f.colors["cyan"].Fprintln(&b, "Summary")
	fmt.Fprintf(&b, "  %s\n\n", r.Summary)

	f.colors["cyan"].Fprintln(&b, "Next actions")
	for i, action := range r.NextActions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, action)
	}
	return b.String()
}

func (f *TextFormatter) status(s models.CheckStatus) string {
	label := fmt.Sprintf("[%-4s]", strings.ToUpper(string(s)))
	switch s {
	case models.StatusPass:
		return f.colors["green"].Sprint(label)
	case models.StatusWarning:
		return f.colors["yellow"].Sprint("[WARN]")
	default:
		return f.colors["red"].Sprint(label)
	}
}

func (f *TextFormatter) confidence(v int) string {
	s := fmt.Sprintf("%3d%%", v)
	switch {
	case v >= 80:
		return f.colors["green"].Sprint(s)
	case v >= 60:
		return f.colors["yellow"].Sprint(s)
	default:
		return f.colors["red"].Sprint(s)
	}
}
