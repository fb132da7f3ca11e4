// Package guard isolates surface callbacks so a failing overlay or animation
// step is logged instead of unwinding into the host's event loop.
package guard

import (
	"context"
	"runtime/debug"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
)

// Run calls fn, recovering and logging any panic. It reports whether fn
// returned normally. A development logger is used when ctx carries none.
func Run(ctx context.Context, name string, fn func()) (ok bool) {
	ctx = logging.EnsureLogger(ctx)
	defer func() {
		if r := recover(); r != nil {
			err, _ := errors.ParseStack(debug.Stack())
			skipFrames := 3
			numFrames := 5
			logging.Errorw(ctx, name+": recovered from panic",
				"error", r, "error.stack_trace", err.MinimalStack(skipFrames, numFrames))
			ok = false
		}
	}()
	fn()
	return true
}

// Wrap returns fn guarded by Run
func Wrap(ctx context.Context, name string, fn func()) func() {
	return func() {
		Run(ctx, name, fn)
	}
}
