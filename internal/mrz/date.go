package mrz

import (
	"fmt"
	"strconv"
)

// yearPivot splits two-digit years: above it is the 1900s, at or below it
// the 2000s.
const yearPivot = 50

// ExpandYear turns a two-digit MRZ year into a four-digit one.
func ExpandYear(yy int) int {
	if yy > yearPivot {
		return 1900 + yy
	}
	return 2000 + yy
}

// FormatDate rewrites a YYMMDD MRZ date as YYYY-MM-DD. Input that is not six
// digits is returned unchanged.
func FormatDate(yymmdd string) string {
	if len(yymmdd) != 6 {
		return yymmdd
	}
	for i := 0; i < len(yymmdd); i++ {
		if yymmdd[i] < '0' || yymmdd[i] > '9' {
			return yymmdd
		}
	}
	yy, _ := strconv.Atoi(yymmdd[:2])
	return fmt.Sprintf("%04d-%s-%s", ExpandYear(yy), yymmdd[2:4], yymmdd[4:6])
}
