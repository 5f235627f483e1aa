package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateISO(t *testing.T) {
	parsed, err := ParseDate("1990-05-20")
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC), *parsed)
}

func TestParseDateBR(t *testing.T) {
	parsed, err := ParseDate("20/05/1990")
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC), *parsed)
}

func TestParseDateEmpty(t *testing.T) {
	parsed, err := ParseDate("   ")
	require.NoError(t, err)
	assert.Nil(t, parsed)
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("05-20-1990")
	assert.Error(t, err)

	_, err = ParseDate("not a date")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", FormatDate(nil))

	d := time.Date(2001, 12, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2001-12-03", FormatDate(&d))
}

func TestMatriculaFor(t *testing.T) {
	assert.Equal(t, 20250301, MatriculaFor(2025, 3, 1))
	assert.Equal(t, 20241299, MatriculaFor(2024, 12, 99))
}
