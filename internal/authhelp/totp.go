package authhelp

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "SafeTweet"

func GenerateTOTP(accountName string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
	})
}

func ValidateTOTP(passcode, secret string) bool {
	if passcode == "" || secret == "" {
		return false
	}
	return totp.Validate(passcode, secret)
}

// GenerateQRCode renders the enrolment URL as a base64 PNG for authenticator apps.
func GenerateQRCode(key *otp.Key) (string, error) {
	var buf bytes.Buffer
	img, err := key.Image(200, 200)
	if err != nil {
		return "", err
	}
	err = png.Encode(&buf, img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
