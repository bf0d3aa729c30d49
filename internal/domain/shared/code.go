package shared

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateCode builds a human-readable document code such as SO-240510-7K2Q.
// Codes are generated once when a record is created and never recomputed.
func GenerateCode(prefix string, at time.Time) string {
	raw := uuid.New()
	var suffix strings.Builder
	for i := 0; i < 4; i++ {
		suffix.WriteByte(codeAlphabet[int(raw[i])%len(codeAlphabet)])
	}
	return prefix + "-" + at.Format("060102") + "-" + suffix.String()
}
