package timemap

import (
	"context"
	"sync"
)

type frameKey struct{}

// frame is one entry of the exclusion stack. It accumulates the elapsed time
// of instrumented calls made while its own invocation is in progress.
type frame struct {
	parent *frame
	depth  int

	mu     sync.Mutex
	nested float64
}

func (f *frame) add(elapsed float64) {
	if f == nil {
		return
	}

	f.mu.Lock()
	f.nested += elapsed
	f.mu.Unlock()
}

func (f *frame) total() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.nested
}

func currentFrame(ctx context.Context) *frame {
	f, _ := ctx.Value(frameKey{}).(*frame)

	return f
}

func pushFrame(ctx context.Context, parent *frame) (context.Context, *frame) {
	f := &frame{parent: parent, depth: 1}
	if parent != nil {
		f.depth = parent.depth + 1
	}

	return context.WithValue(ctx, frameKey{}, f), f
}

// Detach returns a context whose exclusion stack is empty. Calls made with it
// are not excluded from the self time of the caller's instrumented calls.
// Use it for goroutines that run independently of the call that started them.
func Detach(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, frameKey{}, (*frame)(nil))
}

// Depth returns how many instrumented invocations are in progress on ctx's
// call chain.
func Depth(ctx context.Context) int {
	if ctx == nil {
		return 0
	}

	if f := currentFrame(ctx); f != nil {
		return f.depth
	}

	return 0
}
