// Package db persists verification results in Postgres through gorm.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"docverify/internal/models"
)

var ErrNotFound = errors.New("verification record not found")

// Open connects to dsn and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connection to db failed: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get db from GORM: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := gdb.AutoMigrate(&models.VerificationRecord{}); err != nil {
		return nil, fmt.Errorf("automigration failed for VerificationRecord: %w", err)
	}
	return gdb, nil
}

// RecordStore saves and loads verification records.
type RecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db}
}

// NewRecord snapshots a result into a record with a fresh id.
func NewRecord(result models.VerificationResult, source string) (*models.VerificationRecord, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	checks := result.ValidationChecks
	return &models.VerificationRecord{
		ID:                uuid.NewString(),
		DocumentType:      result.ExtractedData.DocumentType.Value,
		OverallConfidence: result.OverallConfidence,
		Eligible:          result.EligibilityAssessment.Eligible,
		FailedChecks:      models.CountStatus(checks, models.StatusFail),
		WarningChecks:     models.CountStatus(checks, models.StatusWarning),
		Source:            source,
		Result:            payload,
	}, nil
}

func (s *RecordStore) Save(ctx context.Context, rec *models.VerificationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("save verification record: %w", err)
	}
	return nil
}

// Get loads a record by id. Malformed ids are reported as ErrNotFound.
func (s *RecordStore) Get(ctx context.Context, id string) (*models.VerificationRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var rec models.VerificationRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load verification record: %w", err)
	}
	return &rec, nil
}
