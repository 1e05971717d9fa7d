package text

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gardar/ocreval/internal/log"
)

// DefaultWorkers bounds batch extraction unless configured otherwise.
const DefaultWorkers = 4

// Extractor reads the lines of one file.
type Extractor func(path string) ([]string, error)

// Document holds the lines extracted from one file.
type Document struct {
	Path  string
	Lines []string
}

// Batch runs extract over paths with at most workers files in flight.
// Files that fail are logged and skipped. The result keeps the order of
// paths. Cancelling ctx stops scheduling further files and returns the
// context error.
func Batch(ctx context.Context, paths []string, workers int, extract Extractor) ([]Document, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	results := make([]*Document, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lines, err := extract(path)
			if err != nil {
				log.Warnf("skipping %s: %v", path, err)
				return nil
			}
			results[i] = &Document{Path: path, Lines: lines}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(results))
	for _, r := range results {
		if r != nil {
			docs = append(docs, *r)
		}
	}
	return docs, nil
}
