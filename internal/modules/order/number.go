package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	orderNumberPrefix   = "FOR"
	orderNumberAttempts = 5
)

// newOrderNumber creates a human-readable candidate: FOR-YYYYMMDD-XXXX.
func newOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, date, suffix)
}

// fallbackOrderNumber is used when every candidate collided: the nanosecond
// timestamp suffix is unique for all practical purposes, and the unique
// index on order_number backstops the rest.
func fallbackOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	return fmt.Sprintf("%s-%s-%d", orderNumberPrefix, date, time.Now().UnixNano())
}

// generateOrderNumber tries a bounded number of short candidates, checking
// each for a collision, then falls back to a timestamp-based suffix. No
// global lock; concurrent creators colliding on the same candidate are
// caught by the existence check or, in the worst case, the unique index.
func (s *service) generateOrderNumber(ctx context.Context) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		candidate := s.newNumber()
		exists, err := s.repo.NumberExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return s.fallbackNumber(), nil
}
