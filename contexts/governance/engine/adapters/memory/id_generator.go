package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UUIDGenerator mints random identifiers for outbox/event rows.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// SystemClock is the wall-clock Clock used outside tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
