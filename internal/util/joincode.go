package util

import (
	"math/rand"
	"strings"
)

// joinCodeAlphabet is the 36-character alphabet join codes are drawn from.
const joinCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateJoinCode produces a join code of n characters drawn uniformly and
// independently from [0-9a-z]. Codes are not globally unique and math/rand
// is deliberate: a join code is a per-workspace convenience identifier that
// admins rotate on demand, not a cryptographic secret.
func GenerateJoinCode(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(joinCodeAlphabet[rand.Intn(len(joinCodeAlphabet))])
	}
	return b.String()
}
