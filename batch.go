package pdfleaf

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Worker sizing constants for ConvertBatch.
const (
	// MinWorkers ensures at least one conversion is in flight.
	MinWorkers = 1

	// MaxWorkers caps concurrent jobs so one batch does not exhaust the
	// account's rate limit.
	MaxWorkers = 8
)

// BatchItem is one conversion in a batch. Name is opaque to the client and
// copied to the matching BatchResult.
type BatchItem struct {
	Name    string
	HTML    string
	Options *PDFOptions
}

// BatchResult is the outcome of one BatchItem.
type BatchResult struct {
	Name     string
	PDF      []byte
	Err      error
	Duration time.Duration
}

// ConvertBatch runs Convert for every item with at most workers conversions
// in flight (workers <= 0 selects ResolveWorkers(0)). Results are returned
// in input order. Items are independent: one failure does not stop the
// others, but a cancelled ctx marks every item not yet started with
// ctx.Err().
func (c *Client) ConvertBatch(ctx context.Context, items []BatchItem, workers int) []BatchResult {
	if len(items) == 0 {
		return nil
	}

	workers = min(ResolveWorkers(workers), len(items))

	results := make([]BatchResult, len(items))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, item := range items {
		g.Go(func() error {
			results[i] = c.convertItem(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *Client) convertItem(ctx context.Context, item BatchItem) BatchResult {
	result := BatchResult{Name: item.Name}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	start := time.Now()
	result.PDF, result.Err = c.Convert(ctx, item.HTML, item.Options)
	result.Duration = time.Since(start)
	return result
}

// ResolveWorkers determines the batch concurrency.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// Conversions are network-bound; one per available CPU is plenty.
	n := runtime.GOMAXPROCS(0)
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
