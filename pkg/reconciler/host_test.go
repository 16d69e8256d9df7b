package reconciler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/native"
)

func newHost(t *testing.T, opts ...Option) (*Host, *native.Recorder) {
	t.Helper()
	rec := native.NewRecorder()
	return NewHost(engine.New(), rec, opts...), rec
}

func TestCommitOpensAndFlushesFrame(t *testing.T) {
	h, rec := newHost(t)

	err := h.Commit(context.Background(), func() error {
		id, err := h.CreateInstance("View", engine.Props{"style": map[string]any{"padding": 5}})
		if err != nil {
			return err
		}
		return h.AppendChildToContainer(id)
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"CreateSurface", "SetPadding", "AppendChild"}
	if diff := cmp.Diff(want, rec.Methods()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if rec.Flushes() != 1 {
		t.Errorf("Flushes() = %d, want 1", rec.Flushes())
	}
	if h.Engine().Frame().Active() {
		t.Error("frame still active after Commit")
	}
}

func TestCallbacksOutsideCommitFail(t *testing.T) {
	h, _ := newHost(t)
	if _, err := h.CreateInstance("View", nil); !errors.Is(err, engine.ErrNoActiveFrame) {
		t.Errorf("CreateInstance() = %v, want ErrNoActiveFrame", err)
	}
	if err := h.ResetAfterCommit(); !errors.Is(err, engine.ErrNoActiveFrame) {
		t.Errorf("ResetAfterCommit() = %v, want ErrNoActiveFrame", err)
	}
}

func TestInitialTreeAndUpdates(t *testing.T) {
	h, rec := newHost(t)
	ctx := context.Background()

	var parent, text native.SurfaceID
	err := h.Commit(ctx, func() error {
		var err error
		if parent, err = h.CreateInstance("View", engine.Props{"title": "a"}); err != nil {
			return err
		}
		if text, err = h.CreateTextInstance("hi"); err != nil {
			return err
		}
		if err := h.AppendInitialChild(parent, text); err != nil {
			return err
		}
		return h.AppendChildToContainer(parent)
	})
	if err != nil {
		t.Fatal(err)
	}
	rec.Reset()

	err = h.Commit(ctx, func() error {
		if err := h.CommitUpdate(parent, engine.Props{"title": "a"}, engine.Props{"title": "b"}); err != nil {
			return err
		}
		if err := h.CommitTextUpdate(text, "hi", "hi"); err != nil {
			return err
		}
		return h.CommitTextUpdate(text, "hi", "bye")
	})
	if err != nil {
		t.Fatal(err)
	}

	bye := "bye"
	want := []native.Call{
		{Method: "SetProperty", Surface: parent, Name: "title", Value: "b"},
		{Method: "SetText", Surface: text, Value: bye},
	}
	if diff := cmp.Diff(want, rec.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertInContainerBefore(t *testing.T) {
	h, _ := newHost(t)
	eng := h.Engine()

	var a, b native.SurfaceID
	err := h.Commit(context.Background(), func() error {
		a, _ = h.CreateInstance("View", nil)
		b, _ = h.CreateInstance("View", nil)
		if err := h.AppendChildToContainer(a); err != nil {
			return err
		}
		return h.InsertInContainerBefore(b, a)
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []native.SurfaceID{b, a}
	if diff := cmp.Diff(want, eng.Children(native.RootSurface)); diff != "" {
		t.Errorf("root children mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveChildReleasesSubtree(t *testing.T) {
	h, rec := newHost(t)
	eng := h.Engine()
	ctx := context.Background()

	var parent, child native.SurfaceID
	h.Commit(ctx, func() error {
		parent, _ = h.CreateInstance("View", nil)
		child, _ = h.CreateInstance("View", engine.Props{"onClick": native.NewListener(func(native.Event) {})})
		h.AppendInitialChild(parent, child)
		return h.AppendChildToContainer(parent)
	})
	rec.Reset()

	if err := h.Commit(ctx, func() error { return h.RemoveChildFromContainer(parent) }); err != nil {
		t.Fatal(err)
	}

	want := []string{"RemoveChild", "DestroySurface"}
	if diff := cmp.Diff(want, rec.Methods()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if eng.Live(parent) || eng.Live(child) {
		t.Error("released subtree still live")
	}
	if eng.Events().Len(child) != 0 {
		t.Error("bindings of released child kept")
	}
}

func TestRemoveChildWrongParent(t *testing.T) {
	h, rec := newHost(t)
	ctx := context.Background()

	var a, b native.SurfaceID
	h.Commit(ctx, func() error {
		a, _ = h.CreateInstance("View", nil)
		b, _ = h.CreateInstance("View", nil)
		return h.AppendChildToContainer(a)
	})
	rec.Reset()

	err := h.Commit(ctx, func() error { return h.RemoveChild(a, b) })
	if !errors.Is(err, engine.ErrNotAChild) {
		t.Fatalf("RemoveChild() = %v, want ErrNotAChild", err)
	}
	if rec.Count("DestroySurface") != 0 {
		t.Error("surface destroyed after a failed removal")
	}
	if !h.Engine().Live(b) {
		t.Error("b released after a failed removal")
	}
}

func TestWithContainer(t *testing.T) {
	rec := native.NewRecorder()
	eng := engine.New()

	var box native.SurfaceID
	eng.Batch(rec, func() error {
		var err error
		box, err = eng.Create("View", nil)
		return err
	})

	h := NewHost(eng, rec, WithContainer(box))
	if h.Container() != box {
		t.Fatalf("Container() = %d, want %d", h.Container(), box)
	}
	var child native.SurfaceID
	err := h.Commit(context.Background(), func() error {
		child, _ = h.CreateInstance("View", nil)
		return h.AppendChildToContainer(child)
	})
	if err != nil {
		t.Fatal(err)
	}
	if eng.Parent(child) != box {
		t.Errorf("Parent(child) = %d, want %d", eng.Parent(child), box)
	}
}

func TestTextInstanceTakesNoChildren(t *testing.T) {
	h, rec := newHost(t)

	err := h.Commit(context.Background(), func() error {
		text, err := h.CreateTextInstance("label")
		if err != nil {
			return err
		}
		child, err := h.CreateInstance("View", nil)
		if err != nil {
			return err
		}
		return h.AppendInitialChild(text, child)
	})
	if !errors.Is(err, engine.ErrHierarchy) {
		t.Fatalf("Commit() error = %v, want ErrHierarchy", err)
	}
	for _, m := range rec.Methods() {
		if m == "AppendChild" {
			t.Errorf("child appended under text: %v", rec.Methods())
		}
	}
}
