package searchindex

import (
	"context"
	"fmt"

	opensearch "github.com/opensearch-project/opensearch-go/v2"
)

// New creates an OpenSearch client and verifies cluster connectivity
// immediately, so a broken client is never handed back to the caller.
func New(ctx context.Context, cfg Config) (*opensearch.Client, error) {
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses:    cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		MaxRetries:   cfg.MaxRetries,
		DisableRetry: cfg.DisableRetry,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConnectionFailed, err)
	}

	resp, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return nil, fmt.Errorf("%w: cluster returned status %s", ErrConnectionFailed, resp.Status())
	}

	return client, nil
}

// Healthcheck returns a function suitable for core/health.Monitor
// registration.
func Healthcheck(client *opensearch.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		resp, err := client.Info(client.Info.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("%w: %s", ErrHealthcheckFailed, err)
		}
		defer resp.Body.Close()
		if resp.IsError() {
			return fmt.Errorf("%w: cluster returned status %s", ErrHealthcheckFailed, resp.Status())
		}
		return nil
	}
}
