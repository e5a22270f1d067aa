package models

// ExtractedField is one value pulled off a document together with a 0-100
// confidence estimate.
type ExtractedField struct {
	Value      string `json:"value"`
	Confidence int    `json:"confidence"`
}

// FieldID names one of the scored fields of an ExtractedData record.
type FieldID string

const (
	FieldDocumentType   FieldID = "documentType"
	FieldDocumentNumber FieldID = "documentNumber"
	FieldSurname        FieldID = "surname"
	FieldGivenNames     FieldID = "givenNames"
	FieldNationality    FieldID = "nationality"
	FieldDateOfBirth    FieldID = "dateOfBirth"
	FieldSex            FieldID = "sex"
	FieldIssuingCountry FieldID = "issuingCountry"
	FieldIssueDate      FieldID = "issueDate"
	FieldExpiryDate     FieldID = "expiryDate"
)

// ScoredFields lists every field that takes part in the overall confidence,
// in display order.
var ScoredFields = []FieldID{
	FieldDocumentType,
	FieldDocumentNumber,
	FieldSurname,
	FieldGivenNames,
	FieldNationality,
	FieldDateOfBirth,
	FieldSex,
	FieldIssuingCountry,
	FieldIssueDate,
	FieldExpiryDate,
}

// ExtractedData is the uniform record produced by the field aggregator,
// whether the values came from the MRZ or from free text.
type ExtractedData struct {
	DocumentType   ExtractedField `json:"documentType"`
	DocumentNumber ExtractedField `json:"documentNumber"`
	Surname        ExtractedField `json:"surname"`
	GivenNames     ExtractedField `json:"givenNames"`
	Nationality    ExtractedField `json:"nationality"`
	DateOfBirth    ExtractedField `json:"dateOfBirth"`
	Sex            ExtractedField `json:"sex"`
	IssuingCountry ExtractedField `json:"issuingCountry"`
	IssueDate      ExtractedField `json:"issueDate"`
	ExpiryDate     ExtractedField `json:"expiryDate"`

	// Raw MRZ lines, carried through unscored.
	MRZLine1 string `json:"mrzLine1,omitempty"`
	MRZLine2 string `json:"mrzLine2,omitempty"`
	MRZLine3 string `json:"mrzLine3,omitempty"`
}

// Field returns the field stored under id. Unknown ids yield a zero field.
func (d *ExtractedData) Field(id FieldID) ExtractedField {
	if p := d.fieldPtr(id); p != nil {
		return *p
	}
	return ExtractedField{}
}

// Set stores f under id. Unknown ids are ignored.
func (d *ExtractedData) Set(id FieldID, f ExtractedField) {
	if p := d.fieldPtr(id); p != nil {
		*p = f
	}
}

func (d *ExtractedData) fieldPtr(id FieldID) *ExtractedField {
	switch id {
	case FieldDocumentType:
		return &d.DocumentType
	case FieldDocumentNumber:
		return &d.DocumentNumber
	case FieldSurname:
		return &d.Surname
	case FieldGivenNames:
		return &d.GivenNames
	case FieldNationality:
		return &d.Nationality
	case FieldDateOfBirth:
		return &d.DateOfBirth
	case FieldSex:
		return &d.Sex
	case FieldIssuingCountry:
		return &d.IssuingCountry
	case FieldIssueDate:
		return &d.IssueDate
	case FieldExpiryDate:
		return &d.ExpiryDate
	}
	return nil
}

// ApplicantDeclaration holds what the applicant typed into the form. It is
// only ever used as a comparison baseline.
type ApplicantDeclaration struct {
	FullName         string `json:"fullName"`
	DateOfBirth      string `json:"dateOfBirth"`
	PassportNumber   string `json:"passportNumber"`
	Nationality      string `json:"nationality"`
	IntendedVisaType string `json:"intendedVisaType"`
	PurposeOfVisit   string `json:"purposeOfVisit"`
}

// CheckStatus is the outcome of a single validation rule.
type CheckStatus string

const (
	StatusPass    CheckStatus = "pass"
	StatusFail    CheckStatus = "fail"
	StatusWarning CheckStatus = "warning"
)

// ValidationCheck is the result of one validation rule.
type ValidationCheck struct {
	Field   string      `json:"field"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
}

// EligibilityAssessment is the visa eligibility verdict and its rationale.
type EligibilityAssessment struct {
	Eligible            bool     `json:"eligible"`
	Confidence          int      `json:"confidence"`
	Reasons             []string `json:"reasons"`
	RecommendedVisaType string   `json:"recommendedVisaType,omitempty"`
	RequiredDocuments   []string `json:"requiredDocuments,omitempty"`
}

// VerificationResult is the complete answer for one verification request.
type VerificationResult struct {
	OverallConfidence     int                   `json:"overallConfidence"`
	ExtractedData         ExtractedData         `json:"extractedData"`
	ValidationChecks      []ValidationCheck     `json:"validationChecks"`
	EligibilityAssessment EligibilityAssessment `json:"eligibilityAssessment"`
	Summary               string                `json:"summary"`
	NextActions           []string              `json:"nextActions"`
}

// CountStatus returns how many checks carry status s.
func CountStatus(checks []ValidationCheck, s CheckStatus) int {
	n := 0
	for _, c := range checks {
		if c.Status == s {
			n++
		}
	}
	return n
}
