package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomDigits returns a cryptographically random numeric code of n digits,
// left-padded with zeros, drawn uniformly from [0, 10^n).
func RandomDigits(n int) (string, error) {
	if n <= 0 {
		n = 6
	}
	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v), nil
}
