package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatIn(t *testing.T) {
	ts := time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "2024-03-01 15:04:05 UTC", FormatIn(ts, "UTC"))
	assert.Equal(t, "2024-03-01 15:04:05 UTC", FormatIn(ts, "Nowhere/Invalid"))
}

func TestNowInFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, NowIn("Nowhere/Invalid").Location())
}
