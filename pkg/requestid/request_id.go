// Package requestid generates correlation identifiers attached to every
// response as X-Request-Id and carried through request-scoped loggers.
package requestid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"
)

// counter is used as fallback when random generation fails
var counter atomic.Uint64

// Generate returns a unique request ID with format: req_<timestamp36>_<randomhex>
// Example: req_mfa1k2x9_a2b3c4d5
func Generate() string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Sprintf("req_%s_%d", timestamp, counter.Add(1))
	}

	return fmt.Sprintf("req_%s_%s", timestamp, hex.EncodeToString(randomBytes))
}
