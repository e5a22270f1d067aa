package mrz

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	td3Line1 = "P<USADOE<<JOHN<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<"
	td3Line2 = "N123456784USA8501014M3001017<<<<<<<<<<<<<<02"
)

func TestDetectLines(t *testing.T) {
	text := strings.Join([]string{
		"PASSPORT",
		"Surname: DOE",
		"  " + td3Line1 + "  ",
		"p<usa lower case is dropped entirely",
		td3Line2,
		"SHORT<<LINE",
	}, "\n")

	got := DetectLines(SplitLines(text))
	require.Len(t, got, 2)
	assert.Equal(t, td3Line1, got[0])
	assert.Equal(t, td3Line2, got[1])
}

func TestDetectLinesStripsNoise(t *testing.T) {
	got := DetectLines([]string{"N12345678 4USA 8501014M 3001017<<<<<<<<<<<<<<02"})
	require.Len(t, got, 1)
	assert.Equal(t, td3Line2, got[0])
}

func TestDetectLinesLengthWindow(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"29 chars", strings.Repeat("A", 29), false},
		{"30 chars", strings.Repeat("A", 30), true},
		{"44 chars", strings.Repeat("<", 44), true},
		{"45 chars", strings.Repeat("A", 45), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectLines([]string{tt.line})
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

func TestDetectLinesHandlesCRLF(t *testing.T) {
	got := DetectLines(SplitLines(td3Line1 + "\r\n" + td3Line2 + "\r\n"))
	assert.Equal(t, []string{td3Line1, td3Line2}, got)
}

func TestParseTD3(t *testing.T) {
	got, ok := Parse([]string{td3Line1, td3Line2})
	require.True(t, ok)
	require.NotNil(t, got.Holder)

	assert.Equal(t, "P", got.Holder.DocumentType)
	assert.Equal(t, "USA", got.Holder.IssuingState)
	assert.Equal(t, "DOE", got.Holder.Surname)
	assert.Equal(t, "JOHN", got.Holder.GivenNames)

	assert.Equal(t, "N12345678", got.Document.DocumentNumber)
	assert.Equal(t, "USA", got.Document.Nationality)
	assert.Equal(t, "850101", got.Document.BirthDate)
	assert.Equal(t, "M", got.Document.Sex)
	assert.Equal(t, "300101", got.Document.ExpirationDate)
	assert.Equal(t, "1985-01-01", FormatDate(got.Document.BirthDate))
	assert.Equal(t, "2030-01-01", FormatDate(got.Document.ExpirationDate))
}

func TestParseMultipleGivenNames(t *testing.T) {
	line1 := "P<GBRSMITH<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<<<<"
	require.Len(t, line1, 44)

	got, ok := Parse([]string{line1, td3Line2})
	require.True(t, ok)
	require.NotNil(t, got.Holder)
	assert.Equal(t, "SMITH", got.Holder.Surname)
	assert.Equal(t, "ANNA MARIA", got.Holder.GivenNames)
	assert.Equal(t, "GBR", got.Holder.IssuingState)
}

// The 43-column lines below lack the line-2 check digit, so column slicing
// cannot line up with TD3 offsets and the parse fails closed.
func TestParseRejectsShortLines(t *testing.T) {
	line1 := "P<USADOE<<JOHN<<<<<<<<<<<<<<<<<<<<<<<<<<<<<"
	line2 := "N12345678USA8501014M3001017<<<<<<<<<<<<<<02"
	require.Len(t, line1, 43)
	require.Len(t, line2, 43)

	got, ok := Parse([]string{line1, line2})
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestParseNeedsTwoCandidates(t *testing.T) {
	_, ok := Parse(nil)
	assert.False(t, ok)
	_, ok = Parse([]string{td3Line2})
	assert.False(t, ok)
}

func TestParseHolderIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name  string
		line1 string
	}{
		{"not a passport line", "I<USADOE<<JOHN<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<"},
		{"line 1 too short", "P<USADOE<<JOHN<<<<<<<<<<<<<<<<<<<"},
		{"no name separator", "P<USADOEJOHNXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse([]string{tt.line1, td3Line2})
			require.True(t, ok)
			assert.Nil(t, got.Holder)
			assert.Equal(t, "N12345678", got.Document.DocumentNumber)
		})
	}
}

func TestExpandYearPivot(t *testing.T) {
	assert.Equal(t, 2000, ExpandYear(0))
	assert.Equal(t, 2050, ExpandYear(50))
	assert.Equal(t, 1951, ExpandYear(51))
	assert.Equal(t, 1999, ExpandYear(99))
}

func TestFormatDateRoundTrip(t *testing.T) {
	for yy := 0; yy < 100; yy++ {
		raw := fmt.Sprintf("%02d0229", yy)
		formatted := FormatDate(raw)
		parsed, err := time.Parse("2006-01-02", formatted)
		year := ExpandYear(yy)
		if year%4 != 0 {
			// Feb 29 only exists in leap years.
			assert.Error(t, err, formatted)
			continue
		}
		require.NoError(t, err, formatted)
		assert.Equal(t, year, parsed.Year())
		assert.Equal(t, time.February, parsed.Month())
		assert.Equal(t, 29, parsed.Day())
	}

	parsed, err := time.Parse("2006-01-02", FormatDate("991231"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(1999, time.December, 31, 0, 0, 0, 0, time.UTC), parsed)
}

func TestFormatDateLeavesMalformedInput(t *testing.T) {
	assert.Equal(t, "85O101", FormatDate("85O101"))
	assert.Equal(t, "8501", FormatDate("8501"))
}
