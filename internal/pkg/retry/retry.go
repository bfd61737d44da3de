package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"2"`
	Delay    time.Duration `env:"DELAY" envDefault:"200ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"1s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
	}
}

// Do runs fn with the configured policy. Only errors accepted by retryIf are
// retried; the last error is returned unwrapped.
func (rc *RetryConfig) Do(ctx context.Context, fn func() error, retryIf func(error) bool) error {
	opts := append(rc.ToRetryOptions(),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryIf),
	)
	return retry.Do(fn, opts...)
}
