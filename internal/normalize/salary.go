package normalize

import (
	"math"
	"strconv"
)

// RepairSalary fixes the truncated "K" shorthand some postings use for
// annual salaries: a bare two-digit number (60 for 60000) is scaled by
// 1000. Missing values stay nil and zero never comes out of here; a zero
// salary would poison every aggregate downstream.
func RepairSalary(raw *float64) *int64 {
	if raw == nil || math.IsNaN(*raw) {
		return nil
	}

	v := int64(*raw)
	if v == 0 {
		return nil
	}

	// The shorthand check runs on the string form, exactly two characters
	// wide, so 4500 passes through untouched while 60 becomes 60000.
	if len(strconv.FormatInt(v, 10)) == 2 {
		v *= 1000
	}
	return &v
}
