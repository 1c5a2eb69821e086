package engine

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/draftedge/farmline/internal/domain/model"
	"github.com/draftedge/farmline/pkg/metrics"
)

// scoreFunc computes one prospect's unranked row. It must be pure with
// respect to shared state: workers read the RankingContext and nothing
// else.
type scoreFunc func(model.Prospect) model.CompositeRanking

// pool fans prospects out to a bounded set of workers and collects their
// rows. Order of collection is arbitrary; the orchestrator imposes the
// deterministic sort afterwards.
type pool struct {
	workers int
}

// newPool sizes the pool, defaulting to the CPU count.
func newPool(workers int) *pool {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &pool{workers: workers}
}

// run processes every prospect and returns the unordered rows. A canceled
// context stops feeding new work; rows already computed are returned.
func (p *pool) run(ctx context.Context, prospects []model.Prospect, score scoreFunc) []model.CompositeRanking {
	jobs := make(chan model.Prospect)
	results := make(chan model.CompositeRanking, len(prospects))

	metrics.UpdateWorkerCount(p.workers)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for prospect := range jobs {
				start := time.Now()
				results <- score(prospect)
				metrics.RecordWorkerLatency(float64(time.Since(start).Milliseconds()))
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, prospect := range prospects {
			select {
			case jobs <- prospect:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(results)

	out := make([]model.CompositeRanking, 0, len(prospects))
	for row := range results {
		out = append(out, row)
	}
	return out
}
