// Package batch runs feature extraction over many documents on a bounded
// worker pool. Extraction is pure per document, so the only concurrency
// requirement is the caller's: the extractor's vocabulary must not be
// rebased while a batch is in flight.
package batch

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"
	"k8s.io/klog/v2"

	"github.com/tbmihailov/discourse-aware-semantic-self-attention/document"
	"github.com/tbmihailov/discourse-aware-semantic-self-attention/extractors/api"
	"github.com/tbmihailov/discourse-aware-semantic-self-attention/views"
)

// ExtractAll extracts features for every document, preserving input
// order in the result. workers bounds the goroutine count; values < 1
// default to GOMAXPROCS. The first extraction error cancels the
// remaining work and is returned.
func ExtractAll(ctx context.Context, ex api.Extractor, docs []*document.Document, workers int) ([]*views.Pair, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	klog.V(1).Infof("extracting %d documents on %d workers", len(docs), workers)

	results := make([]*views.Pair, len(docs))
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx).WithCancelOnError()
	for i, doc := range docs {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pair, err := ex.Extract(doc)
			if err != nil {
				return err
			}
			results[i] = pair
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
