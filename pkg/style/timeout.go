package style

import (
	"errors"
	"fmt"
	"time"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// Errors returned by Evaluate when no style is produced.
var (
	ErrTimeout    = errors.New("style: evaluation timed out")
	ErrSuperseded = errors.New("style: evaluation superseded by newer request")
)

// outcome carries an evaluation result out of its goroutine.
type outcome struct {
	style  *Style
	errors []EvalError
	err    error
}

// next starts a new generation and returns its number.
func (e *Engine) next() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

// current returns the newest generation.
func (e *Engine) current() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// wait returns the outcome on ch, or ErrTimeout after the engine timeout. An
// outcome whose generation is no longer current is dropped with
// ErrSuperseded. A timed-out goroutine keeps running; its result lands in
// the buffered channel and is never read.
func (e *Engine) wait(ch <-chan outcome, gen uint64) (*Style, []EvalError, error) {
	return e.waitFor(ch, gen, e.timeout)
}

func (e *Engine) waitFor(ch <-chan outcome, gen uint64, limit time.Duration) (*Style, []EvalError, error) {
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		if gen != e.current() {
			return nil, nil, ErrSuperseded
		}
		return res.style, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)
	}
}
