// Package revocation tracks logged-out session token IDs until they expire.
package revocation

import (
	"fmt"
	"time"

	"verifyflow/pkg/platform/sentinel"
)

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}
