package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 24*time.Hour, ParseDuration("24h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("tomorrow", time.Minute))
}

func TestParseBoolDefault(t *testing.T) {
	assert.True(t, ParseBoolDefault("", true))
	assert.False(t, ParseBoolDefault("false", true))
	assert.True(t, ParseBoolDefault("1", false))
	assert.True(t, ParseBoolDefault("maybe", true))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 50, ClampLimit("", 50, 100))
	assert.Equal(t, 10, ClampLimit("10", 50, 100))
	assert.Equal(t, 100, ClampLimit("1000", 50, 100))
	assert.Equal(t, 50, ClampLimit("-3", 50, 100))
}
