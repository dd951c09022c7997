package extractor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poaudit/internal/extractor"
)

func TestNormalizeROCDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"roc compact", "1141028", "2025/10/28"},
		{"roc dotted", "114.10.28", "2025/10/28"},
		{"roc dashed", "114-10-28", "2025/10/28"},
		{"roc two digit year", "991231", "2010/12/31"},
		{"gregorian slash untouched", "2025/10/28", "2025/10/28"},
		{"gregorian dash untouched", "2025-10-28", "2025-10-28"},
		{"invalid month untouched", "1141328", "1141328"},
		{"invalid day untouched", "1141032", "1141032"},
		{"free text untouched", "next tuesday", "next tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractor.NormalizeROCDate(tt.input))
		})
	}
}

func TestParseOrderDate_Gregorian(t *testing.T) {
	result := extractor.ParseOrderDate("2025/10/28")
	require.NotNil(t, result)
	assert.Equal(t, 2025, result.Year())
	assert.Equal(t, time.October, result.Month())
	assert.Equal(t, 28, result.Day())
}

func TestParseOrderDate_ROC(t *testing.T) {
	result := extractor.ParseOrderDate("1141028")
	require.NotNil(t, result)
	assert.Equal(t, 2025, result.Year())
	assert.Equal(t, time.October, result.Month())
	assert.Equal(t, 28, result.Day())
}

func TestParseOrderDate_SingleDigitParts(t *testing.T) {
	result := extractor.ParseOrderDate("2025/1/5")
	require.NotNil(t, result)
	assert.Equal(t, 2025, result.Year())
	assert.Equal(t, time.January, result.Month())
	assert.Equal(t, 5, result.Day())
}

func TestParseOrderDate_Unparseable(t *testing.T) {
	assert.Nil(t, extractor.ParseOrderDate(""))
	assert.Nil(t, extractor.ParseOrderDate("not a date"))
}
