package pipeline

import (
	"errors"
	"math/rand"
	"net"
	"time"

	"github.com/dgallion1/textprep/internal/ner"
)

// IsRetryable checks if an error is worth retrying. Transient extraction
// failures (rate limits, 5xx from the model server) and network timeouts
// qualify; validation and config errors never do.
func IsRetryable(err error) bool {
	var nerErr *ner.RetryableError
	if errors.As(err, &nerErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3
