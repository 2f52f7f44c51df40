package client

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	captchaCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CaptchaLength  = 6
)

// GenerateCaptcha picks length characters uniformly from captchaCharset.
func GenerateCaptcha(length int) (string, error) {
	max := big.NewInt(int64(len(captchaCharset)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(captchaCharset[n.Int64()])
	}
	return b.String(), nil
}

// CaptchaMatches compares an answer with the displayed challenge, ignoring case.
func CaptchaMatches(answer, challenge string) bool {
	return challenge != "" && strings.EqualFold(answer, challenge)
}
