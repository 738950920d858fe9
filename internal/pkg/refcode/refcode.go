// Package refcode generates unique loan profile reference codes.
package refcode

import (
	"strings"

	"github.com/google/uuid"
)

const prefix = "LP-"

// New returns a fresh reference code of the form LP-XXXXXXXXXXXXXXXX.
// Uniqueness is enforced by the unique index on the profile table; the code
// itself is derived from a v4 UUID.
func New() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(raw[:16])
}
