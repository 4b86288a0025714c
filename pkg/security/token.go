package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var tokenCharset = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// RandomToken returns n random alphanumeric characters. Used for order
// numbers and synthesized guest identities.
func RandomToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive")
	}
	out := make([]rune, n)
	max := big.NewInt(int64(len(tokenCharset)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		out[i] = tokenCharset[idx.Int64()]
	}
	return string(out), nil
}
