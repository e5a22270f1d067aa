package fields

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify/internal/models"
	"docverify/internal/mrz"
)

const (
	line1 = "P<USADOE<<JOHN<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<"
	line2 = "N123456784USA8501014M3001017<<<<<<<<<<<<<<02"
)

func TestAggregateFromMRZ(t *testing.T) {
	text := "PASSPORT\n" + line1 + "\n" + line2
	decl := &models.ApplicantDeclaration{
		PassportNumber: "N12345678",
		Nationality:    "usa",
		DateOfBirth:    "1985-01-01",
	}

	got, source := Aggregate(text, mrz.DetectLines(mrz.SplitLines(text)), decl)
	require.Equal(t, SourceMRZ, source)

	assert.Equal(t, models.ExtractedField{Value: "TD3", Confidence: 95}, got.DocumentType)
	assert.Equal(t, models.ExtractedField{Value: "N12345678", Confidence: 75}, got.DocumentNumber)
	// 3 chars -> 15, case-insensitive match -> +30.
	assert.Equal(t, models.ExtractedField{Value: "USA", Confidence: 45}, got.Nationality)
	assert.Equal(t, models.ExtractedField{Value: "1985-01-01", Confidence: 80}, got.DateOfBirth)
	assert.Equal(t, models.ExtractedField{Value: "DOE", Confidence: 90}, got.Surname)
	assert.Equal(t, models.ExtractedField{Value: "JOHN", Confidence: 90}, got.GivenNames)
	assert.Equal(t, models.ExtractedField{Value: "M", Confidence: 90}, got.Sex)
	assert.Equal(t, models.ExtractedField{Value: "USA", Confidence: 90}, got.IssuingCountry)
	assert.Equal(t, models.ExtractedField{Value: "2030-01-01", Confidence: 90}, got.ExpiryDate)
	assert.Equal(t, models.ExtractedField{}, got.IssueDate)

	assert.Equal(t, line1, got.MRZLine1)
	assert.Equal(t, line2, got.MRZLine2)
	assert.Empty(t, got.MRZLine3)
}

func TestAggregateMRZWithoutHolderLine(t *testing.T) {
	other := "I<USADOE<<JOHN<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<"
	got, source := Aggregate("", []string{other, line2}, nil)
	require.Equal(t, SourceMRZ, source)

	assert.Equal(t, "N12345678", got.DocumentNumber.Value)
	assert.Equal(t, models.ExtractedField{}, got.Surname)
	assert.Equal(t, models.ExtractedField{}, got.GivenNames)
	assert.Equal(t, models.ExtractedField{}, got.IssuingCountry)
}

func TestAggregateFallsBackToText(t *testing.T) {
	text := "REPUBLIC OF TESTLAND\nPASSPORT\nPassport No: X1234567\nBorn 14/03/1990\nValid until 01/05/2029"
	decl := &models.ApplicantDeclaration{FullName: "Jane Roe", Nationality: "TST"}

	got, source := Aggregate(text, mrz.DetectLines(mrz.SplitLines(text)), decl)
	require.Equal(t, SourceText, source)

	assert.Equal(t, "PASSPORT", got.DocumentType.Value)
	assert.Equal(t, "X1234567", got.DocumentNumber.Value)
	assert.Equal(t, "14/03/1990", got.DateOfBirth.Value)
	assert.Equal(t, "01/05/2029", got.ExpiryDate.Value)
	assert.Equal(t, "Roe", got.Surname.Value)
	assert.Equal(t, "Jane", got.GivenNames.Value)
	assert.Equal(t, "TST", got.Nationality.Value)
	assert.Empty(t, got.MRZLine1)
}

func TestAggregateAttachesRawLinesEvenWhenUndecodable(t *testing.T) {
	a := strings.Repeat("A", 35)
	b := strings.Repeat("B", 35)
	c := strings.Repeat("C", 35)

	got, source := Aggregate("", []string{a, b, c}, nil)
	assert.Equal(t, SourceText, source)
	assert.Equal(t, a, got.MRZLine1)
	assert.Equal(t, b, got.MRZLine2)
	assert.Equal(t, c, got.MRZLine3)

	got, _ = Aggregate("", []string{a}, nil)
	assert.Empty(t, got.MRZLine1)
}

func TestAggregateConfidenceBounds(t *testing.T) {
	texts := []string{"", "PASSPORT No: ABCDEFGHIJKL", line1 + "\n" + line2}
	decls := []*models.ApplicantDeclaration{nil, {FullName: "A B C", PassportNumber: "zzz", Nationality: "X"}}
	for _, text := range texts {
		for _, decl := range decls {
			got, _ := Aggregate(text, mrz.DetectLines(mrz.SplitLines(text)), decl)
			for _, id := range models.ScoredFields {
				c := got.Field(id).Confidence
				assert.GreaterOrEqual(t, c, 0, id)
				assert.LessOrEqual(t, c, 100, id)
			}
		}
	}
}
