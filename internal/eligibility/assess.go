// Package eligibility turns validation results into a visa eligibility
// verdict. An applicant is eligible exactly when no check failed.
package eligibility

import (
	"fmt"
	"strings"

	"docverify/internal/extract"
	"docverify/internal/models"
)

const (
	eligibleCeiling   = 95
	eligibleFloor     = 70
	perWarningPenalty = 5
	ineligibleStart   = 60
	ineligibleCeiling = 40
	perFailurePenalty = 10
)

var baselineDocuments = []string{
	"Completed visa application form",
	"Recent passport-sized photographs",
	"Proof of accommodation",
	"Travel itinerary",
	"Financial statements",
}

// visaSpecificDocuments adds one requirement for some visa types.
var visaSpecificDocuments = map[string]string{
	"student": "Letter of acceptance from institution",
	"work":    "Employment contract or job offer letter",
}

// Assess derives the verdict from the checks. documentType is the extracted
// document type value; decl may be nil.
func Assess(documentType string, checks []models.ValidationCheck, decl *models.ApplicantDeclaration) models.EligibilityAssessment {
	var failed []models.ValidationCheck
	warnings := 0
	for _, c := range checks {
		switch c.Status {
		case models.StatusFail:
			failed = append(failed, c)
		case models.StatusWarning:
			warnings++
		}
	}

	visaType := ""
	if decl != nil {
		visaType = strings.TrimSpace(decl.IntendedVisaType)
	}

	out := models.EligibilityAssessment{Eligible: len(failed) == 0}
	if !out.Eligible {
		out.Confidence = clamp(min(ineligibleCeiling, ineligibleStart-perFailurePenalty*len(failed)))
		out.Reasons = append(out.Reasons, fmt.Sprintf("%d critical validation check(s) failed", len(failed)))
		for _, c := range failed {
			out.Reasons = append(out.Reasons, "Failed: "+c.Message)
		}
		return out
	}

	out.Confidence = clamp(max(eligibleFloor, eligibleCeiling-perWarningPenalty*warnings))
	out.Reasons = append(out.Reasons, "All critical validation checks passed")
	if warnings == 0 {
		out.Reasons = append(out.Reasons, "No warnings detected")
	} else {
		out.Reasons = append(out.Reasons, fmt.Sprintf("%d warning(s) detected but not critical", warnings))
	}
	if documentType == extract.DocPassport {
		out.Reasons = append(out.Reasons, "Valid passport document detected")
	}
	if visaType != "" {
		out.Reasons = append(out.Reasons, fmt.Sprintf("Applying for %s visa", visaType))
		out.RecommendedVisaType = visaType
		out.RequiredDocuments = RequiredDocuments(visaType)
	}
	return out
}

// RequiredDocuments lists the supporting documents for a visa type.
func RequiredDocuments(visaType string) []string {
	docs := append([]string(nil), baselineDocuments...)
	if extra, ok := visaSpecificDocuments[strings.ToLower(visaType)]; ok {
		docs = append(docs, extra)
	}
	return docs
}

func clamp(v int) int {
	return min(max(v, 0), 100)
}
