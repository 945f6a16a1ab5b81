package utils

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"math/big"
	"strings"
)

// GenerateReferralCode generates a random referral code.
// Format: EE-{RANDOM} where RANDOM is 6 alphanumeric characters.
func GenerateReferralCode() (string, error) {
	// 4 random bytes give 6 characters in base32
	randomBytes := make([]byte, 4)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	randomStr := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	randomStr = strings.ToUpper(randomStr[:6])

	return "EE-" + randomStr, nil
}

// GenerateEeID generates a human-readable external user id, e.g. "ES-556378".
func GenerateEeID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ES-%06d", n.Int64()+100000), nil
}
