package queue

import (
	"context"
	"sync"

	"github.com/bicepspshop/FINALrealtor-sub001/utils"
)

// Task is one unit of background work.
type Task func(ctx context.Context)

// Queue decouples accepting work from running it, so an HTTP handler can
// acknowledge a request before its side effects complete while keeping
// failures observable in the worker instead of lost in a goroutine.
type Queue interface {
	Enqueue(t Task) bool
}

// Worker drains a buffered channel with a fixed number of goroutines.
type Worker struct {
	tasks  chan Task
	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

func NewWorker(buffer, workers int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		tasks:  make(chan Task, buffer),
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
	return w
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()
	for t := range w.tasks {
		t(ctx)
	}
}

// Enqueue hands t to the workers. It never blocks: when the buffer is full
// or the worker is stopped the task is rejected and the caller decides
// what to do (for webhook events the gateway's redelivery covers us).
func (w *Worker) Enqueue(t Task) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		utils.LogError(nil, "Task queue stopped, task rejected")
		return false
	}
	select {
	case w.tasks <- t:
		return true
	default:
		utils.LogError(nil, "Task queue full, task rejected")
		return false
	}
}

// Stop refuses new work, lets the workers drain everything already
// accepted, then releases the task context.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.tasks)
	w.mu.Unlock()

	w.wg.Wait()
	w.cancel()
}

// Inline runs every task synchronously in Enqueue. Used in tests.
type Inline struct{}

func (Inline) Enqueue(t Task) bool {
	t(context.Background())
	return true
}
