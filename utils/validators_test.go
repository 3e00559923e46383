package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidID(t *testing.T) {
	cases := map[string]bool{
		"":                                     false,
		"user-1":                               true,
		"8f1c3a54-3f0e-4a8e-9d3b-1f2a3b4c5d6e": true,
		"has space":                            false,
		"tab\tid":                              false,
		strings.Repeat("a", MaxIDLength):       true,
		strings.Repeat("a", MaxIDLength+1):     false,
	}
	for id, want := range cases {
		assert.Equal(t, want, IsValidID(id), "id %q", id)
	}
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("jane_smith"))
	assert.True(t, IsValidUsername("john.doe-2"))
	assert.False(t, IsValidUsername("jo"))
	assert.False(t, IsValidUsername("white space"))
	assert.False(t, IsValidUsername(strings.Repeat("x", MaxUsernameLength+1)))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("jane@example.com"))
	assert.False(t, IsValidEmail("jane@"))
}
