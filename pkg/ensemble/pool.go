package ensemble

import (
	"context"
	"sync"

	"github.com/rafelafrance/digi-leap/pkg/ocrin"
)

// Task is one label's worth of OCR records.
type Task struct {
	ID          string
	Records     []ocrin.Record
	ImageHeight int
}

// Result pairs a task with its outcome.
type Result struct {
	ID    string
	Label *Label
	Err   error
}

// BuildAll reconciles many labels concurrently on a pool of workers sized
// by the config. Results come back in task order. Cancelling the context
// abandons unstarted tasks; their results carry the context error.
func (b *Builder) BuildAll(ctx context.Context, tasks []Task) []Result {
	results := make([]Result, len(tasks))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < b.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				label, err := b.BuildLabel(tasks[i].ID, tasks[i].Records, tasks[i].ImageHeight)
				results[i] = Result{ID: tasks[i].ID, Label: label, Err: err}
			}
		}()
	}

feed:
	for i := range tasks {
		select {
		case indexes <- i:
		case <-ctx.Done():
			for j := i; j < len(tasks); j++ {
				results[j] = Result{ID: tasks[j].ID, Err: ctx.Err()}
			}
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	return results
}
