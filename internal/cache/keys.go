package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/vertere-lang/vertere/compiler/codegen"
)

// Key derives a stable content-addressed cache key from source text and a
// codegen target; identical (source, target) pairs always produce the
// same key regardless of the generator's internal state.
func Key(source string, target codegen.TargetName) string {
	h := sha256.New()
	h.Write([]byte(target))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}
