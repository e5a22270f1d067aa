package mrz

import "strings"

const (
	// FormatTD3 labels documents decoded from a two-line, 44-column MRZ.
	FormatTD3 = "TD3"

	td3LineLen     = 44
	passportMarker = 'P'
	nameSeparator  = "<<"
)

// Holder is the part of a TD3 MRZ carried on line 1.
type Holder struct {
	DocumentType string
	IssuingState string
	Surname      string
	GivenNames   string
}

// Document is the part of a TD3 MRZ carried on line 2. Dates are the raw
// YYMMDD strings.
type Document struct {
	DocumentNumber string
	Nationality    string
	BirthDate      string
	Sex            string
	ExpirationDate string
}

// TD3 is a decoded passport MRZ. Holder is nil when line 1 is not a
// passport line; its fields are then all absent.
type TD3 struct {
	Holder   *Holder
	Document Document
}

// Parse decodes the first two candidates as TD3 lines 1 and 2. It reports
// false when fewer than two candidates exist or line 2 is shorter than a TD3
// line; nothing is decoded in that case.
func Parse(candidates []string) (*TD3, bool) {
	if len(candidates) < 2 {
		return nil, false
	}
	doc, ok := parseDocumentLine(candidates[1])
	if !ok {
		return nil, false
	}
	return &TD3{
		Holder:   parseHolderLine(candidates[0]),
		Document: doc,
	}, true
}

func parseHolderLine(line string) *Holder {
	if len(line) < td3LineLen || line[0] != passportMarker {
		return nil
	}
	names := strings.Split(line[5:], nameSeparator)
	if len(names) < 2 {
		return nil
	}
	return &Holder{
		DocumentType: string(passportMarker),
		IssuingState: stripFiller(line[2:5]),
		Surname:      cleanName(names[0]),
		GivenNames:   cleanName(names[1]),
	}
}

func parseDocumentLine(line string) (Document, bool) {
	if len(line) < td3LineLen {
		return Document{}, false
	}
	return Document{
		DocumentNumber: stripFiller(line[0:9]),
		Nationality:    stripFiller(line[10:13]),
		BirthDate:      line[13:19],
		Sex:            line[20:21],
		ExpirationDate: line[21:27],
	}, true
}

func stripFiller(s string) string {
	return strings.ReplaceAll(s, string(Filler), "")
}

func cleanName(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, string(Filler), " "))
}
