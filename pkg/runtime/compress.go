package runtime

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/sanma/boundvar/pkg/compress"
)

func (rt *Runtime) compressor() *compress.Compressor {
	return compress.New(compress.Options{
		Modes:     rt.modes,
		Alphabets: rt.alphabets,
		Budget:    rt.verifyBudget,
		Logger:    rt.logger,
	})
}

// Compress finds the shortest verified expression for a solution literal.
func (rt *Runtime) Compress(ctx context.Context, text string) (*compress.Result, error) {
	return rt.compressWith(ctx, rt.compressor(), text)
}

func (rt *Runtime) compressWith(ctx context.Context, c *compress.Compressor, text string) (*compress.Result, error) {
	res, err := c.CompressText(ctx, text)
	if err != nil {
		var verr *compress.VerifyError
		if errors.As(err, &verr) {
			rt.metrics.RecordVerifyError()
		}
		return nil, err
	}
	rt.metrics.RecordCompression(string(res.Chosen.Mode), res.Saved())
	return res, nil
}

// BatchItem is the outcome of one job of CompressAll.
type BatchItem struct {
	Index  int
	Name   string
	Result *compress.Result
	Err    error
}

// BatchJob names one solution literal.
type BatchJob struct {
	Name string
	Text string
}

// CompressAll compresses jobs with at most the configured number of
// workers. Each job builds its own trees and governors. A failing job is
// reported in its item and does not stop the others; only cancellation
// of ctx aborts the batch.
func (rt *Runtime) CompressAll(ctx context.Context, jobs []BatchJob) ([]BatchItem, error) {
	items := make([]BatchItem, len(jobs))
	c := rt.compressor()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := rt.compressWith(gctx, c, job.Text)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			items[i] = BatchItem{Index: i, Name: job.Name, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, nil
}
