package reporter

import "sync"

// Result is the pending outcome of one report. It resolves exactly once,
// either to success (nil error) or to the failure that ended the dispatch.
//
// A Result cannot be cancelled; waiting is optional and stopping to wait does
// not stop the dispatch.
type Result struct {
	done chan struct{}
	err  error

	mu        sync.Mutex
	callbacks []func(error)
}

func newResult() *Result {
	return &Result{done: make(chan struct{})}
}

// resolved returns a Result that has already completed with err.
func resolved(err error) *Result {
	r := newResult()
	r.resolve(err)
	return r
}

func (r *Result) resolve(err error) {
	r.mu.Lock()
	r.err = err
	close(r.done)
	callbacks := r.callbacks
	r.callbacks = nil
	r.mu.Unlock()

	for _, fn := range callbacks {
		fn(err)
	}
}

// Done is closed once the result is known.
func (r *Result) Done() <-chan struct{} { return r.done }

// Wait blocks until the result is known and returns its error.
func (r *Result) Wait() error {
	<-r.done
	return r.err
}

// Err returns the error once the result is known and nil before that.
func (r *Result) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// Then registers fn to be called with the outcome. If the result is already
// known, fn runs immediately on the calling goroutine; otherwise it runs on the
// goroutine that completes the dispatch.
func (r *Result) Then(fn func(error)) {
	r.mu.Lock()
	select {
	case <-r.done:
		err := r.err
		r.mu.Unlock()
		fn(err)
	default:
		r.callbacks = append(r.callbacks, fn)
		r.mu.Unlock()
	}
}
