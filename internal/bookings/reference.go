package bookings

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Unambiguous alphabet, no 0/O or 1/I.
const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReference returns a human-quotable booking reference of the
// form CNB-YYYYMMDD-XXXXXX.
func GenerateReference(now time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}
	for i := range buf {
		buf[i] = referenceAlphabet[int(buf[i])%len(referenceAlphabet)]
	}
	return fmt.Sprintf("CNB-%s-%s", now.Format("20060102"), string(buf)), nil
}
