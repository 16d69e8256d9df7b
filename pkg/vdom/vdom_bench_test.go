package vdom

import (
	"context"
	"strconv"
	"testing"

	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/native"
	"github.com/vango-dev/scenesync/pkg/reconciler"
)

func benchList(n, shift int) *VNode {
	return View(Repeat(n, func(i int) *VNode {
		k := (i + shift) % n
		return El("Row", Key(k), Text("row "+strconv.Itoa(k)))
	}))
}

func BenchmarkRenderUnchanged(b *testing.B) {
	root := NewRoot(reconciler.NewHost(engine.New(), native.NewRecorder()))
	ctx := context.Background()
	tree := benchList(100, 0)
	if err := root.Render(ctx, tree); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		root.Render(ctx, tree)
	}
}

func BenchmarkRenderRotate(b *testing.B) {
	rec := native.NewRecorder()
	root := NewRoot(reconciler.NewHost(engine.New(), rec))
	ctx := context.Background()
	if err := root.Render(ctx, benchList(100, 0)); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		root.Render(ctx, benchList(100, i+1))
		rec.Reset()
	}
}
