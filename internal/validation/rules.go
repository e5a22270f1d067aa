// Package validation runs independent rule checks over extracted document
// data. Each rule yields at most one check and never fails the pipeline:
// values that cannot be interpreted simply produce no check.
package validation

import (
	"fmt"
	"strings"
	"time"

	"docverify/internal/models"
)

const (
	expiryWarningMonths = 6
	adultAge            = 18
	maxPlausibleAge     = 100
	minDocNumberLen     = 6
)

// Rule inspects the extracted data and optionally produces one check.
type Rule func(in Input) (models.ValidationCheck, bool)

// Input is everything a rule may look at.
type Input struct {
	Data  models.ExtractedData
	Decl  *models.ApplicantDeclaration
	Today time.Time
}

// Rules is the canonical rule set in emission order.
var Rules = []Rule{
	checkExpiry,
	checkAge,
	checkDocumentNumberMatch,
	checkNationalityMatch,
	checkDocumentNumberFormat,
	checkIssuingCountry,
}

// Validate runs every rule in order and returns the checks they produced.
func Validate(data models.ExtractedData, decl *models.ApplicantDeclaration, today time.Time) []models.ValidationCheck {
	in := Input{Data: data, Decl: decl, Today: truncateDay(today)}
	checks := make([]models.ValidationCheck, 0, len(Rules))
	for _, rule := range Rules {
		if c, ok := rule(in); ok {
			checks = append(checks, c)
		}
	}
	return checks
}

func checkExpiry(in Input) (models.ValidationCheck, bool) {
	expiry, ok := ParseDate(in.Data.ExpiryDate.Value)
	if !ok {
		return models.ValidationCheck{}, false
	}
	c := models.ValidationCheck{Field: "Expiry Date"}
	switch {
	case expiry.Before(in.Today):
		c.Status, c.Message = models.StatusFail, "Document has expired"
	case expiry.Before(in.Today.AddDate(0, expiryWarningMonths, 0)):
		c.Status, c.Message = models.StatusWarning, "Document expires within 6 months"
	default:
		c.Status, c.Message = models.StatusPass, "Document is valid and not expiring soon"
	}
	return c, true
}

func checkAge(in Input) (models.ValidationCheck, bool) {
	dob, ok := ParseDate(in.Data.DateOfBirth.Value)
	if !ok {
		return models.ValidationCheck{}, false
	}
	age := AgeOn(dob, in.Today)
	c := models.ValidationCheck{Field: "Age"}
	switch {
	case age < adultAge:
		c.Status, c.Message = models.StatusWarning, fmt.Sprintf("Applicant is %d years old (minor)", age)
	case age > maxPlausibleAge:
		c.Status, c.Message = models.StatusFail, "Invalid date of birth (age exceeds 100 years)"
	default:
		c.Status, c.Message = models.StatusPass, fmt.Sprintf("Applicant is %d years old", age)
	}
	return c, true
}

func checkDocumentNumberMatch(in Input) (models.ValidationCheck, bool) {
	if in.Decl == nil || in.Decl.PassportNumber == "" || in.Data.DocumentNumber.Value == "" {
		return models.ValidationCheck{}, false
	}
	c := models.ValidationCheck{Field: "Document Number Match"}
	if strings.EqualFold(in.Decl.PassportNumber, in.Data.DocumentNumber.Value) {
		c.Status, c.Message = models.StatusPass, "Document number matches application"
	} else {
		c.Status, c.Message = models.StatusFail, "Document number does not match application"
	}
	return c, true
}

// checkNationalityMatch only ever warns; a nationality mismatch is not
// disqualifying.
func checkNationalityMatch(in Input) (models.ValidationCheck, bool) {
	if in.Decl == nil || in.Decl.Nationality == "" || in.Data.Nationality.Value == "" {
		return models.ValidationCheck{}, false
	}
	c := models.ValidationCheck{Field: "Nationality Match"}
	if strings.EqualFold(in.Decl.Nationality, in.Data.Nationality.Value) {
		c.Status, c.Message = models.StatusPass, "Nationality matches application"
	} else {
		c.Status, c.Message = models.StatusWarning, "Nationality does not match application"
	}
	return c, true
}

func checkDocumentNumberFormat(in Input) (models.ValidationCheck, bool) {
	num := in.Data.DocumentNumber.Value
	if num == "" {
		return models.ValidationCheck{}, false
	}
	c := models.ValidationCheck{Field: "Document Number Format"}
	if len(num) >= minDocNumberLen {
		c.Status, c.Message = models.StatusPass, "Document number format is valid"
	} else {
		c.Status, c.Message = models.StatusWarning, "Document number format may be invalid"
	}
	return c, true
}

func checkIssuingCountry(in Input) (models.ValidationCheck, bool) {
	country := in.Data.IssuingCountry.Value
	if country == "" {
		return models.ValidationCheck{}, false
	}
	return models.ValidationCheck{
		Field:   "Issuing Country",
		Status:  models.StatusPass,
		Message: "Issued by " + country,
	}, true
}
