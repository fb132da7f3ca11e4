package guard

import (
	"context"
	"testing"

	"github.com/dpup/prefab/logging"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	ctx := context.Background()

	called := false
	assert.True(t, Run(ctx, "ok", func() { called = true }))
	assert.True(t, called)

	assert.NotPanics(t, func() {
		assert.False(t, Run(ctx, "boom", func() { panic("overlay exploded") }))
	})
}

func TestRun_WithContextLogger(t *testing.T) {
	ctx := logging.With(context.Background(), logging.NewDevLogger())
	assert.NotPanics(t, func() {
		assert.False(t, Run(ctx, "boom", func() { panic(eris.New("exploded")) }))
	})
}

func TestWrap(t *testing.T) {
	ctx := context.Background()
	fn := Wrap(ctx, "nil map", func() {
		var m map[string]int
		m["x"] = 1
	})
	assert.NotPanics(t, fn)
}
