package inventory

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const tagAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewAssetTag returns prefix followed by the last six digits of the current
// Unix time in milliseconds and three random base-36 characters,
// e.g. AST482913K7Q.
func NewAssetTag(prefix string, now time.Time) (string, error) {
	suffix := make([]byte, 3)
	max := big.NewInt(int64(len(tagAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generating asset tag: %w", err)
		}
		suffix[i] = tagAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s%06d%s", prefix, now.UnixMilli()%1_000_000, suffix), nil
}
