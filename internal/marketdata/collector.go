package marketdata

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/files"
)

// Collector runs repeated listing fetches and appends each batch to a CSV
// file. Pacing comes from the client's rate limiter, so cycles run as fast
// as the provider quota allows and no faster.
type Collector struct {
	client *Client
	logger *slog.Logger
}

// NewCollector creates a collector on top of an existing client.
func NewCollector(client *Client, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{client: client, logger: logger}
}

// Run performs cycles fetch-and-append rounds, writing to outPath. It stops
// early when ctx is cancelled or a fetch fails, returning how many cycles
// completed alongside the error.
func (c *Collector) Run(ctx context.Context, params ListingsParams, cycles int, outPath string) (int, error) {
	if cycles <= 0 {
		return 0, fmt.Errorf("cycles must be positive, got %d", cycles)
	}

	for i := 0; i < cycles; i++ {
		d, err := c.client.Listings(ctx, params)
		if err != nil {
			return i, fmt.Errorf("collection cycle %d failed: %w", i+1, err)
		}
		if err := files.AppendCSV(outPath, d); err != nil {
			return i, fmt.Errorf("collection cycle %d failed: %w", i+1, err)
		}
		c.logger.Info("collection cycle complete",
			slog.Int("cycle", i+1),
			slog.Int("cycles", cycles),
			slog.Int("rows", d.NumRows()))
	}
	return cycles, nil
}
