package utils

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferralLink(t *testing.T) {
	t.Setenv("APP_BASE_URL", "")
	assert.Equal(t, "https://earnease.app/register?ref=EE-ABCDEF", ReferralLink("EE-ABCDEF"))

	t.Setenv("APP_BASE_URL", "https://staging.earnease.app")
	assert.Equal(t, "https://staging.earnease.app/register?ref=EE-ABCDEF", ReferralLink("EE-ABCDEF"))
}

func TestGenerateReferralQRCode(t *testing.T) {
	dataURL, err := GenerateReferralQRCode("EE-ABCDEF")
	require.NoError(t, err)

	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(dataURL, prefix))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefix))
	require.NoError(t, err)

	// PNG magic bytes
	require.Greater(t, len(raw), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, raw[:4])
}
