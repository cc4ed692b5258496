package server

import (
	"fmt"

	"github.com/aeldidi/cora/store"
)

// stateRequest represents a unit of work to be executed on the store goroutine.
type stateRequest struct {
	fn   func(*store.State) interface{}
	done chan stateResult
}

// stateResult holds the return value from a store operation.
type stateResult struct {
	value interface{}
	err   error
}

// StateWorker serializes all store access through a single goroutine.
// The store is single-threaded; every LSP handler goes through the
// worker to avoid data races.
type StateWorker struct {
	st       *store.State
	requests chan stateRequest
	quit     chan struct{}
}

// NewStateWorker creates a StateWorker and starts the processing goroutine.
func NewStateWorker(st *store.State) *StateWorker {
	w := &StateWorker{
		st:       st,
		requests: make(chan stateRequest, 64),
		quit:     make(chan struct{}),
	}
	go w.loop()
	return w
}

// loop processes requests sequentially on a dedicated goroutine.
func (w *StateWorker) loop() {
	for {
		select {
		case req := <-w.requests:
			result := w.execute(req.fn)
			req.done <- result
		case <-w.quit:
			return
		}
	}
}

// execute runs a function on the store, recovering from panics.
func (w *StateWorker) execute(fn func(*store.State) interface{}) stateResult {
	var result stateResult
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.err = fmt.Errorf("%v", r)
			}
		}()
		result.value = fn(w.st)
	}()
	return result
}

// Do submits a function for execution on the store goroutine and blocks
// until it completes. Returns the result and any error (including panics).
func (w *StateWorker) Do(fn func(*store.State) interface{}) (interface{}, error) {
	req := stateRequest{
		fn:   fn,
		done: make(chan stateResult, 1),
	}
	w.requests <- req
	result := <-req.done
	return result.value, result.err
}

// Stop shuts down the worker goroutine.
func (w *StateWorker) Stop() {
	close(w.quit)
}
