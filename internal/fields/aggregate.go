// Package fields merges MRZ or free-text results into one ExtractedData
// record with a value and confidence per field.
package fields

import (
	"docverify/internal/extract"
	"docverify/internal/models"
	"docverify/internal/mrz"
	"docverify/internal/similarity"
)

const (
	mrzFormatConfidence = 95
	mrzFixedConfidence  = 90
	maxRawMRZLines      = 3
)

// Source tells which extraction path produced a record.
type Source string

const (
	SourceMRZ  Source = "mrz"
	SourceText Source = "text"
)

// Aggregate builds the extracted-data record. A decoded MRZ is treated as
// ground truth for names, sex, issuing country and expiry; otherwise every
// field comes from the free-text extractor. candidates are the detected MRZ
// lines; the first few are attached verbatim when at least two exist.
func Aggregate(text string, candidates []string, decl *models.ApplicantDeclaration) (models.ExtractedData, Source) {
	var (
		out    models.ExtractedData
		source Source
	)
	if td3, ok := mrz.Parse(candidates); ok {
		out = fromMRZ(td3, decl)
		source = SourceMRZ
	} else {
		out = extract.FromText(text, decl)
		source = SourceText
	}
	attachRawLines(&out, candidates)
	return out, source
}

func fromMRZ(td3 *mrz.TD3, decl *models.ApplicantDeclaration) models.ExtractedData {
	var expect models.ApplicantDeclaration
	if decl != nil {
		expect = *decl
	}

	var out models.ExtractedData
	out.DocumentType = models.ExtractedField{Value: mrz.FormatTD3, Confidence: mrzFormatConfidence}

	doc := td3.Document
	out.DocumentNumber = scored(doc.DocumentNumber, expect.PassportNumber)
	out.Nationality = scored(doc.Nationality, expect.Nationality)
	if doc.BirthDate != "" {
		out.DateOfBirth = scored(mrz.FormatDate(doc.BirthDate), expect.DateOfBirth)
	}
	out.Sex = fixed(doc.Sex)
	if doc.ExpirationDate != "" {
		out.ExpiryDate = fixed(mrz.FormatDate(doc.ExpirationDate))
	}

	if h := td3.Holder; h != nil {
		out.Surname = fixed(h.Surname)
		out.GivenNames = fixed(h.GivenNames)
		out.IssuingCountry = fixed(h.IssuingState)
	}
	return out
}

func scored(value, expected string) models.ExtractedField {
	return models.ExtractedField{Value: value, Confidence: similarity.Confidence(value, expected)}
}

// fixed gives MRZ-sourced values their ground-truth confidence. Empty
// values stay at zero.
func fixed(value string) models.ExtractedField {
	if value == "" {
		return models.ExtractedField{}
	}
	return models.ExtractedField{Value: value, Confidence: mrzFixedConfidence}
}

func attachRawLines(out *models.ExtractedData, candidates []string) {
	if len(candidates) < 2 {
		return
	}
	out.MRZLine1 = candidates[0]
	out.MRZLine2 = candidates[1]
	if len(candidates) >= maxRawMRZLines {
		out.MRZLine3 = candidates[2]
	}
}
