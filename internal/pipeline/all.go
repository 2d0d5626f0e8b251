package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"configen/internal/manifest"
)

// RunAll runs manifests concurrently, at most parallel at a time. Results
// keep the order of manifests. The first hard error cancels the remaining
// runs.
func RunAll(ctx context.Context, manifests []*manifest.Manifest, opts Options, parallel int) ([]*Result, error) {
	if parallel < 1 {
		parallel = 1
	}

	results := make([]*Result, len(manifests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, m := range manifests {
		g.Go(func() error {
			runner, err := NewRunner(m, opts)
			if err != nil {
				return fmt.Errorf("manifest %s: %w", m.Path, err)
			}

			res, err := runner.Run(ctx)
			results[i] = res

			if err != nil {
				return fmt.Errorf("manifest %s: %w", m.Path, err)
			}

			return nil
		})
	}

	err := g.Wait()

	return results, err
}

// Failed reports whether any result should make the process exit non-zero.
func Failed(results []*Result, strict bool) bool {
	for _, r := range results {
		if r == nil || r.Failed(strict) {
			return true
		}
	}

	return false
}
