package normalizer

import (
	"context"
	"runtime"
	"sync"

	"slipnorm/internal/slip"
)

// BatchInput is one slip to normalize, with its optional bank hint and the
// source filename the caller wants echoed back.
type BatchInput struct {
	RawText  string `json:"raw_text"`
	BankHint string `json:"bank_hint,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// BatchResult pairs an input with its outcome, in input order. Err is set
// only for the fatal empty-input case (or cancellation); one slip's
// failure never aborts the rest of the batch.
type BatchResult struct {
	Index    int
	FileName string
	Record   slip.Record
	Err      error
}

// NormalizeBatch fans the inputs out over a bounded worker pool and
// returns results in input order. The core is CPU-bound string work with
// no shared mutable state, so workers default to the number of CPUs.
// Cancellation leaves the remaining items with ctx.Err().
func (n *Normalizer) NormalizeBatch(ctx context.Context, inputs []BatchInput, workers int) []BatchResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	results := make([]BatchResult, len(inputs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				in := inputs[i]
				rec, err := n.Normalize(in.RawText, in.BankHint)
				results[i] = BatchResult{Index: i, FileName: in.FileName, Record: rec, Err: err}
			}
		}()
	}

	for i := range inputs {
		select {
		case <-ctx.Done():
			results[i] = BatchResult{Index: i, FileName: inputs[i].FileName, Err: ctx.Err()}
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
