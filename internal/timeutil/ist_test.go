package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatIST(t *testing.T) {
	utc := time.Date(2025, 3, 31, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-04-01 01:30:00", FormatIST(utc, DateTimeLayout))
}

func TestFinancialYear(t *testing.T) {
	// 31 Mar 20:00 UTC is already 1 Apr in India.
	assert.Equal(t, "2025-26", FinancialYear(time.Date(2025, 3, 31, 20, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-25", FinancialYear(time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2099-00", FinancialYear(time.Date(2099, 6, 1, 0, 0, 0, 0, time.UTC)))
}
