package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailRules(t *testing.T) {
	assert.Equal(t, "asha@example.com", NormalizeEmail("  Asha@Example.COM "))
	assert.True(t, IsValidEmail("asha@example.com"))
	assert.True(t, IsValidEmail("a.b+c@mail.example.travel"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("a@b"))
	assert.False(t, IsValidEmail(""))
}

func TestYearAndMobileRules(t *testing.T) {
	assert.True(t, IsValidYear(2020))
	assert.False(t, IsValidYear(20))
	assert.False(t, IsValidYear(12020))

	assert.True(t, IsValidMobile("+91 98765-43210"))
	assert.True(t, IsValidMobile("9876543210"))
	assert.False(t, IsValidMobile("call me"))
}

func TestIsSingleLine(t *testing.T) {
	assert.True(t, IsSingleLine("Asha Rao"))
	assert.True(t, IsSingleLine("Zoë Ñúñez"))
	assert.True(t, IsSingleLine(""))
	assert.False(t, IsSingleLine("Asha\r\nBcc: x@evil.test"))
	assert.False(t, IsSingleLine("tab\there"))
	assert.False(t, IsSingleLine("nul\x00"))
}
