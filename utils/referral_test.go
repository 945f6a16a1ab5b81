package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReferralCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^EE-[A-Z2-7]{6}$`)
	for i := 0; i < 20; i++ {
		code, err := GenerateReferralCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestGenerateReferralCode_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateReferralCode()
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestGenerateEeID_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^ES-\d{6}$`)
	for i := 0; i < 20; i++ {
		id, err := GenerateEeID()
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
	}
}
