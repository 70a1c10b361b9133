package utils

import (
	"crypto/rand"
	"math/big"
	"time"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateConfirmationCode returns BK + YYMMDD + 6 random characters.
// Uniqueness is enforced by the store, not here.
func GenerateConfirmationCode(now time.Time) string {
	buf := make([]byte, 0, 14)
	buf = append(buf, "BK"...)
	buf = now.AppendFormat(buf, "060102")
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand never fails on supported platforms
			n = big.NewInt(time.Now().UnixNano() % int64(len(codeAlphabet)))
		}
		buf = append(buf, codeAlphabet[n.Int64()])
	}
	return string(buf)
}
