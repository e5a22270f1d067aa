// Package extract pulls document fields out of raw OCR text with keyword
// and regex heuristics. It is the fallback when no MRZ can be decoded.
package extract

import (
	"regexp"
	"strings"

	"docverify/internal/models"
	"docverify/internal/similarity"
)

// Document type labels produced by keyword classification.
const (
	DocPassport       = "PASSPORT"
	DocNationalID     = "NATIONAL_ID"
	DocDrivingLicense = "DRIVING_LICENSE"
	DocUnknown        = "UNKNOWN"
)

const (
	dateConfidence        = 70
	declaredNameConf      = 60
	declaredNationalityCf = 65
)

var (
	docNumberRe = regexp.MustCompile(`(?i)\b(?:Number|No|P)\b[:\s]*([A-Z0-9]{6,12})\b`)
	dateRe      = regexp.MustCompile(`\b(\d{2}[/\-.]\d{2}[/\-.]\d{4}|\d{4}[/\-.]\d{2}[/\-.]\d{2})\b`)
)

// docTypeRule maps keywords to a document type. Rules are checked in order
// and the first rule with any keyword present wins.
type docTypeRule struct {
	keywords   []string
	docType    string
	confidence int
}

var docTypeRules = []docTypeRule{
	{keywords: []string{"PASSPORT"}, docType: DocPassport, confidence: 85},
	{keywords: []string{"IDENTITY", "ID CARD"}, docType: DocNationalID, confidence: 80},
	{keywords: []string{"DRIVING", "LICENSE"}, docType: DocDrivingLicense, confidence: 80},
}

const unknownDocConfidence = 40

// FromText extracts what it can from raw OCR text. decl may be nil; when
// present it supplies the expected document number for scoring and the
// name and nationality, which free text cannot reliably locate.
func FromText(text string, decl *models.ApplicantDeclaration) models.ExtractedData {
	var out models.ExtractedData

	out.DocumentType = classify(text)

	expectedNumber := ""
	if decl != nil {
		expectedNumber = decl.PassportNumber
	}
	if m := docNumberRe.FindStringSubmatch(text); len(m) >= 2 {
		out.DocumentNumber = models.ExtractedField{
			Value:      m[1],
			Confidence: similarity.Confidence(m[1], expectedNumber),
		}
	}

	dates := dateRe.FindAllString(text, -1)
	if len(dates) > 0 {
		out.DateOfBirth = models.ExtractedField{Value: dates[0], Confidence: dateConfidence}
	}
	if len(dates) > 1 {
		out.ExpiryDate = models.ExtractedField{Value: dates[len(dates)-1], Confidence: dateConfidence}
	}

	if decl != nil {
		applyDeclaration(&out, decl)
	}
	return out
}

func classify(text string) models.ExtractedField {
	upper := strings.ToUpper(text)
	for _, rule := range docTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(upper, kw) {
				return models.ExtractedField{Value: rule.docType, Confidence: rule.confidence}
			}
		}
	}
	return models.ExtractedField{Value: DocUnknown, Confidence: unknownDocConfidence}
}

// applyDeclaration fills the name fields from the declared full name: the
// last token is the surname, the rest are given names.
func applyDeclaration(out *models.ExtractedData, decl *models.ApplicantDeclaration) {
	parts := strings.Fields(decl.FullName)
	if len(parts) > 0 {
		out.Surname = models.ExtractedField{Value: parts[len(parts)-1], Confidence: declaredNameConf}
	}
	if len(parts) > 1 {
		out.GivenNames = models.ExtractedField{
			Value:      strings.Join(parts[:len(parts)-1], " "),
			Confidence: declaredNameConf,
		}
	}
	if nat := strings.TrimSpace(decl.Nationality); nat != "" {
		out.Nationality = models.ExtractedField{Value: nat, Confidence: declaredNationalityCf}
	}
}
