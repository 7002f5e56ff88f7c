package app

import (
	"pagure/internal/config"
	"pagure/internal/repository"
	"pagure/internal/retry"
)

func newRepoRetrier(cfg config.Retry, retryableFunc retry.IsRetryableFunc) retry.Retrier {
	opts := []retry.RetryOption{
		retry.WithMaxAttempts(cfg.MaxAttempts),
	}

	if retryableFunc != nil {
		opts = append(opts, retry.WithIsRetryableFunc(retryableFunc))
	}

	switch cfg.Backoff {
	case "exponential":
		opts = append(opts, retry.WithBackoff(retry.ExponentialBackoff{
			Base:   cfg.Base,
			Factor: cfg.Factor,
			Max:    cfg.Max,
			Jitter: cfg.Jitter,
		}))
	case "constant":
		opts = append(opts, retry.WithBackoff(retry.ConstantBackoff(cfg.Base)))
	}

	return retry.New(opts...)
}

// isRetryableFunc retries serialization failures and transient connection
// errors, never constraint violations or missing rows.
func isRetryableFunc(err error) bool {
	return repository.IsRetryable(err)
}
