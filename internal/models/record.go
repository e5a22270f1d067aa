package models

import "time"

// VerificationRecord is the persisted audit trail of a completed
// verification. Result holds the VerificationResult as JSON.
type VerificationRecord struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentType      string    `gorm:"size:32" json:"document_type"`
	OverallConfidence int       `json:"overall_confidence"`
	Eligible          bool      `gorm:"index" json:"eligible"`
	FailedChecks      int       `json:"failed_checks"`
	WarningChecks     int       `json:"warning_checks"`
	Source            string    `gorm:"size:16" json:"source"`
	Result            []byte    `gorm:"type:jsonb" json:"-"`
	CreatedAt         time.Time `json:"created_at"`
}
