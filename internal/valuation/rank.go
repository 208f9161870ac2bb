package valuation

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"appraiser/internal/types"
)

// RankOptions narrows a ranking. A zero Verdict keeps every verdict; a zero Limit keeps
// every record.
type RankOptions struct {
	Verdict types.Verdict
	Limit   int
}

// Rank values every dataset record and orders the results by difference ascending, so the
// most undervalued properties come first. Ties are broken by ID.
func (e *Engine) Rank(opts RankOptions) ([]types.Comparison, error) {
	if e.dataset == nil {
		return nil, &OpError{Op: "valuation.rank", Kind: KindNotFound, Err: fmt.Errorf("no dataset loaded")}
	}
	records := e.dataset.Records()

	// Pipeline: producer -> workers (inference) -> collector under mutex
	recCh := make(chan types.PropertyRecord, 256)

	var (
		mu       sync.Mutex
		results  []types.Comparison
		firstErr error
	)

	workers := runtime.NumCPU()
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for rec := range recCh {
				cmp, err := e.PredictRecord(rec)
				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
				} else if opts.Verdict == "" || cmp.Valuation.Verdict == opts.Verdict {
					results = append(results, cmp)
				}
				mu.Unlock()
			}
		}()
	}

	for _, rec := range records {
		recCh <- rec
	}
	close(recCh)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(results, func(i, j int) bool {
		di, dj := results[i].Valuation.Difference, results[j].Valuation.Difference
		if di == dj {
			return results[i].Record.ID < results[j].Record.ID
		}
		return di < dj
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	e.log.Debug("ranked dataset", "records", len(records), "results", len(results), "verdict", opts.Verdict)
	return results, nil
}
