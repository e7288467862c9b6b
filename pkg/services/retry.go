package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/darwin256/comick-uploader/pkg/comick"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 10 * time.Second
)

// RetryPolicy decides whether a failed chapter attempt is repeated. Transient
// failures (retryable server statuses, transport errors) are retried after a
// fixed delay until the attempt budget runs out; permanent failures abort
// immediately.
type RetryPolicy struct {
	Attempts uint
	Delay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: DefaultMaxAttempts, Delay: DefaultRetryDelay}
}

// Run executes op under the policy. Exhausting every attempt on a transient
// error yields a "max retries exceeded" error wrapping the last failure;
// permanent errors come back unchanged from the attempt that hit them.
func (p RetryPolicy) Run(ctx context.Context, op func() error) error {
	err := retry.Do(op,
		retry.Context(ctx),
		retry.Attempts(p.Attempts),
		retry.Delay(p.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(comick.IsTransient),
	)
	if err != nil && comick.IsTransient(err) && ctx.Err() == nil {
		return fmt.Errorf("max retries exceeded: %w", err)
	}
	return err
}
