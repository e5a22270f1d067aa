// Package report combines field and validation scores into an overall
// confidence and renders the summary and next-action guidance.
package report

import (
	"fmt"
	"math"
	"strings"

	"docverify/internal/models"
)

const (
	fieldWeight      = 0.6
	validationWeight = 0.4
	neutralScore     = 50.0

	highConfidence   = 80
	mediumConfidence = 60
	imageQualityBar  = 70
)

// OverallConfidence blends the mean field confidence with the validation
// pass rate.
func OverallConfidence(data models.ExtractedData, checks []models.ValidationCheck) int {
	fieldScore := neutralScore
	if n := len(models.ScoredFields); n > 0 {
		sum := 0
		for _, id := range models.ScoredFields {
			sum += data.Field(id).Confidence
		}
		fieldScore = float64(sum) / float64(n)
	}

	validationScore := neutralScore
	if len(checks) > 0 {
		passed := models.CountStatus(checks, models.StatusPass)
		validationScore = float64(passed) / float64(len(checks)) * 100
	}

	v := int(math.Round(fieldScore*fieldWeight + validationScore*validationWeight))
	return min(max(v, 0), 100)
}

// Summary renders a one-sentence verdict.
func Summary(overall int, data models.ExtractedData, assessment models.EligibilityAssessment) string {
	docType := data.DocumentType.Value
	if docType == "" {
		docType = "document"
	}
	name := "applicant"
	if data.Surname.Value != "" {
		name = strings.TrimSpace(data.GivenNames.Value + " " + data.Surname.Value)
	}

	switch {
	case overall >= highConfidence && assessment.Eligible:
		return fmt.Sprintf("High-confidence verification: %s for %s is valid and authentic. "+
			"All critical checks passed successfully. Applicant is eligible to proceed with visa application.", docType, name)
	case overall >= mediumConfidence && assessment.Eligible:
		return fmt.Sprintf("Medium-confidence verification: %s for %s appears valid but requires manual review "+
			"of flagged items. Applicant may be eligible pending review.", docType, name)
	case overall >= mediumConfidence:
		return fmt.Sprintf("Medium-confidence verification: Document extracted but validation checks failed. "+
			"%s is not currently eligible for visa application. See validation checks for details.", name)
	default:
		return fmt.Sprintf("Low-confidence verification: Unable to fully verify %s. Document quality, "+
			"authenticity, or completeness issues detected. Manual inspection required.", docType)
	}
}

// NextActions lists what the applicant should do next, most urgent first.
func NextActions(overall int, checks []models.ValidationCheck, assessment models.EligibilityAssessment) []string {
	var actions []string

	failures := 0
	for _, c := range checks {
		if c.Status != models.StatusFail {
			continue
		}
		if failures == 0 {
			actions = append(actions, "Address all failed validation checks before proceeding")
		}
		actions = append(actions, "Resolve: "+c.Message)
		failures++
	}

	if overall < imageQualityBar {
		actions = append(actions,
			"Submit a higher quality image of the document",
			"Ensure all text on the document is clearly visible and in focus",
		)
	}

	if failures == 0 && models.CountStatus(checks, models.StatusWarning) > 0 {
		actions = append(actions, "Review warning items for potential issues")
	}

	if assessment.Eligible {
		actions = append(actions,
			"Proceed with visa application submission",
			"Prepare all required supporting documents",
			"Schedule visa interview if required",
		)
	} else {
		actions = append(actions,
			"Rectify document issues before applying",
			"Consult with embassy or visa office for guidance",
		)
	}

	if len(actions) == 0 {
		actions = append(actions, "Verification complete - proceed to next step")
	}
	return actions
}
