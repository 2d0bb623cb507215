package host

import (
	"context"
)

// Operation is a transfer that may still be in progress. Err is only
// meaningful after Done is closed.
type Operation interface {
	Done() <-chan struct{}
	Err() error
}

type operation struct {
	done chan struct{}
	err  error
}

func (o *operation) Done() <-chan struct{} { return o.done }
func (o *operation) Err() error            { return o.err }

// Completed returns an Operation that has already finished with err.
func Completed(err error) Operation {
	op := &operation{done: make(chan struct{}), err: err}
	close(op.done)
	return op
}

// Go runs fn on its own goroutine and returns an Operation that completes
// when fn returns.
func Go(fn func() error) Operation {
	op := &operation{done: make(chan struct{})}
	go func() {
		defer close(op.done)
		op.err = fn()
	}()
	return op
}

// Then waits for op and runs next once it has completed without error. A nil
// op counts as completed. next is not run when op fails or ctx is done first;
// the corresponding error is returned instead.
//
// Returning on ctx does not stop op. A transfer still running may leave
// partial files behind; LocalTransfer checks ctx between files to keep that
// window short.
func Then(ctx context.Context, op Operation, next func(context.Context) error) error {
	if op != nil {
		select {
		case <-op.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
		if err := op.Err(); err != nil {
			return err
		}
	}
	return next(ctx)
}
