package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// ReferralLink builds the shareable signup URL for a referral code.
func ReferralLink(referralCode string) string {
	base := os.Getenv("APP_BASE_URL")
	if base == "" {
		base = "https://earnease.app"
	}
	return fmt.Sprintf("%s/register?ref=%s", base, referralCode)
}

// GenerateReferralQRCode renders a referral link as a 300x300 QR code and
// returns it as a base64 data URL for embedding in responses.
func GenerateReferralQRCode(referralCode string) (string, error) {
	content := ReferralLink(referralCode)

	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return "", err
	}

	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = png.Encode(&buf, qrCode)
	if err != nil {
		return "", err
	}

	base64QR := base64.StdEncoding.EncodeToString(buf.Bytes())
	return "data:image/png;base64," + base64QR, nil
}
