package engine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/scenesync/pkg/native"
)

func TestAppendMovesWithoutRemove(t *testing.T) {
	eng, rec := newFramed(t)
	a := mustCreate(t, eng, nil)
	b := mustCreate(t, eng, nil)
	c := mustCreate(t, eng, nil)
	rec.Reset()

	if err := eng.Append(a, b); err != nil {
		t.Fatal(err)
	}
	if err := eng.Append(c, b); err != nil {
		t.Fatal(err)
	}

	want := []native.Call{
		{Method: "AppendChild", Surface: a, Child: b},
		{Method: "AppendChild", Surface: c, Child: b},
	}
	if diff := cmp.Diff(want, rec.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if got := eng.Children(a); len(got) != 0 {
		t.Errorf("Children(A) = %v, want empty", got)
	}
	if diff := cmp.Diff([]native.SurfaceID{b}, eng.Children(c)); diff != "" {
		t.Errorf("Children(C) mismatch (-want +got):\n%s", diff)
	}
	if eng.Parent(b) != c {
		t.Errorf("Parent(B) = %d, want %d", eng.Parent(b), c)
	}
}

func TestAppendWithinSameParentReorders(t *testing.T) {
	eng, _ := newFramed(t)
	p := mustCreate(t, eng, nil)
	x := mustCreate(t, eng, nil)
	y := mustCreate(t, eng, nil)
	for _, id := range []native.SurfaceID{x, y, x} {
		if err := eng.Append(p, id); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]native.SurfaceID{y, x}, eng.Children(p)); diff != "" {
		t.Errorf("Children mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertBefore(t *testing.T) {
	eng, rec := newFramed(t)
	p := mustCreate(t, eng, nil)
	x := mustCreate(t, eng, nil)
	y := mustCreate(t, eng, nil)
	z := mustCreate(t, eng, nil)
	_ = eng.Append(p, x)
	_ = eng.Append(p, y)
	rec.Reset()

	if err := eng.InsertBefore(p, z, y); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]native.SurfaceID{x, z, y}, eng.Children(p)); diff != "" {
		t.Errorf("Children mismatch (-want +got):\n%s", diff)
	}
	// Moving an existing child in front of an earlier sibling.
	if err := eng.InsertBefore(p, y, x); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]native.SurfaceID{y, x, z}, eng.Children(p)); diff != "" {
		t.Errorf("Children mismatch (-want +got):\n%s", diff)
	}
	want := []native.Call{
		{Method: "InsertBefore", Surface: p, Child: z, Before: y},
		{Method: "InsertBefore", Surface: p, Child: y, Before: x},
	}
	if diff := cmp.Diff(want, rec.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertBeforeNoRefAppends(t *testing.T) {
	eng, rec := newFramed(t)
	p := mustCreate(t, eng, nil)
	x := mustCreate(t, eng, nil)
	rec.Reset()
	if err := eng.InsertBefore(p, x, native.NoSurface); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"AppendChild"}, rec.Methods()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertBeforeMissingReference(t *testing.T) {
	eng, rec := newFramed(t)
	p := mustCreate(t, eng, nil)
	other := mustCreate(t, eng, nil)
	x := mustCreate(t, eng, nil)
	stranger := mustCreate(t, eng, nil)
	_ = eng.Append(other, stranger)
	_ = eng.Append(other, x)
	rec.Reset()

	if err := eng.InsertBefore(p, x, stranger); err != nil {
		t.Fatalf("InsertBefore() error = %v, want nil", err)
	}
	if err := eng.InsertBefore(p, x, x); err != nil {
		t.Fatalf("InsertBefore(self ref) error = %v, want nil", err)
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("calls = %v, want none", rec.Methods())
	}
	if eng.Parent(x) != other {
		t.Errorf("Parent(x) = %d, want unchanged %d", eng.Parent(x), other)
	}
	if got := eng.Stats().IgnoredInserts; got != 2 {
		t.Errorf("IgnoredInserts = %d, want 2", got)
	}
}

func TestRemoveChildNotAChild(t *testing.T) {
	eng, rec := newFramed(t)
	p := mustCreate(t, eng, nil)
	x := mustCreate(t, eng, nil)
	never := mustCreate(t, eng, nil)
	_ = eng.Append(p, x)

	if err := eng.RemoveChild(p, x); err != nil {
		t.Fatalf("first RemoveChild() error = %v", err)
	}
	rec.Reset()

	err := eng.RemoveChild(p, x)
	if !errors.Is(err, ErrNotAChild) {
		t.Errorf("second RemoveChild() error = %v, want ErrNotAChild", err)
	}
	var terr *TreeError
	if !errors.As(err, &terr) || terr.Parent != p || terr.Child != x {
		t.Errorf("error = %#v, want TreeError(%d, %d)", err, p, x)
	}
	if err := eng.RemoveChild(p, never); !errors.Is(err, ErrNotAChild) {
		t.Errorf("RemoveChild(never attached) error = %v, want ErrNotAChild", err)
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("failed removals issued %v", rec.Methods())
	}
}

func TestReplaceChild(t *testing.T) {
	eng, rec := newFramed(t)
	p := mustCreate(t, eng, nil)
	x := mustCreate(t, eng, nil)
	old := mustCreate(t, eng, nil)
	y := mustCreate(t, eng, nil)
	n := mustCreate(t, eng, nil)
	for _, id := range []native.SurfaceID{x, old, y} {
		_ = eng.Append(p, id)
	}
	rec.Reset()

	if err := eng.ReplaceChild(p, n, old); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]native.SurfaceID{x, n, y}, eng.Children(p)); diff != "" {
		t.Errorf("Children mismatch (-want +got):\n%s", diff)
	}
	if eng.Parent(old) != native.NoSurface {
		t.Errorf("old child still parented to %d", eng.Parent(old))
	}
	want := []native.Call{
		{Method: "InsertBefore", Surface: p, Child: n, Before: old},
		{Method: "RemoveChild", Surface: p, Child: old},
	}
	if diff := cmp.Diff(want, rec.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	rec.Reset()
	if err := eng.ReplaceChild(p, old, old); err != nil {
		t.Errorf("ReplaceChild(missing) error = %v", err)
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("ignored replace issued %v", rec.Methods())
	}
}

func TestHierarchyViolations(t *testing.T) {
	eng, rec := newFramed(t)
	a := mustCreate(t, eng, nil)
	b := mustCreate(t, eng, nil)
	_ = eng.Append(native.RootSurface, a)
	_ = eng.Append(a, b)
	txt, err := eng.CreateText("leaf")
	if err != nil {
		t.Fatalf("CreateText() error = %v", err)
	}
	c := mustCreate(t, eng, nil)
	rec.Reset()

	tests := []struct {
		name          string
		parent, child native.SurfaceID
		want          error
	}{
		{"self", a, a, ErrHierarchy},
		{"ancestor", b, a, ErrHierarchy},
		{"root", a, native.RootSurface, ErrHierarchy},
		{"text parent", txt, c, ErrHierarchy},
		{"unknown child", a, 999, ErrUnknownSurface},
		{"unknown parent", 999, b, ErrUnknownSurface},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := eng.Append(tc.parent, tc.child); !errors.Is(err, tc.want) {
				t.Errorf("Append() error = %v, want %v", err, tc.want)
			}
		})
	}
	if err := eng.InsertBefore(txt, c, native.NoSurface); !errors.Is(err, ErrHierarchy) {
		t.Errorf("InsertBefore() under text error = %v, want ErrHierarchy", err)
	}
	if err := eng.ReplaceChild(txt, c, b); !errors.Is(err, ErrHierarchy) {
		t.Errorf("ReplaceChild() under text error = %v, want ErrHierarchy", err)
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("rejected inserts issued %v", rec.Methods())
	}
	if eng.Parent(c) != native.NoSurface {
		t.Errorf("child attached under text")
	}
}

// TestStructuralInvariant drives random structural operations and checks
// parent pointers against child sequences after each step.
func TestStructuralInvariant(t *testing.T) {
	eng, _ := newFramed(t)
	ids := []native.SurfaceID{native.RootSurface}
	for i := 0; i < 12; i++ {
		ids = append(ids, mustCreate(t, eng, nil))
	}
	rng := rand.New(rand.NewSource(42))
	pick := func() native.SurfaceID { return ids[rng.Intn(len(ids))] }

	for step := 0; step < 2000; step++ {
		p, c, r := pick(), pick(), pick()
		var err error
		switch rng.Intn(4) {
		case 0:
			err = eng.Append(p, c)
		case 1:
			err = eng.InsertBefore(p, c, r)
		case 2:
			err = eng.RemoveChild(p, c)
		case 3:
			err = eng.ReplaceChild(p, c, r)
		}
		if err != nil && !errors.Is(err, ErrHierarchy) && !errors.Is(err, ErrNotAChild) {
			t.Fatalf("step %d: unexpected error %v", step, err)
		}
		checkTree(t, eng, ids)
	}
}

func checkTree(t *testing.T, eng *Engine, ids []native.SurfaceID) {
	t.Helper()
	owners := make(map[native.SurfaceID]native.SurfaceID)
	for _, p := range ids {
		seen := make(map[native.SurfaceID]bool)
		for _, c := range eng.Children(p) {
			if seen[c] {
				t.Fatalf("surface %d listed twice under %d", c, p)
			}
			seen[c] = true
			if prev, ok := owners[c]; ok {
				t.Fatalf("surface %d listed under %d and %d", c, prev, p)
			}
			owners[c] = p
		}
	}
	for _, c := range ids {
		if got, want := eng.Parent(c), owners[c]; got != want {
			t.Fatalf("Parent(%d) = %d, child sequences say %d", c, got, want)
		}
	}
}

func TestReleaseSubtree(t *testing.T) {
	eng, rec := newFramed(t)
	a := mustCreate(t, eng, nil)
	b := mustCreate(t, eng, Props{"onClick": native.NewListener(func(native.Event) {})})
	_ = eng.Append(native.RootSurface, a)
	_ = eng.Append(a, b)
	rec.Reset()

	if err := eng.Release(a); err != nil {
		t.Fatal(err)
	}
	want := []native.Call{
		{Method: "RemoveChild", Surface: native.RootSurface, Child: a},
		{Method: "DestroySurface", Surface: a},
	}
	if diff := cmp.Diff(want, rec.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if eng.Live(a) || eng.Live(b) {
		t.Error("released subtree still live")
	}
	if eng.Events().Len(b) != 0 {
		t.Error("bindings of released descendant kept")
	}
	if got := eng.Stats().Surfaces; got != 1 {
		t.Errorf("Surfaces = %d, want 1 (root)", got)
	}

	if err := eng.Release(native.RootSurface); !errors.Is(err, ErrRootSurface) {
		t.Errorf("Release(root) error = %v, want ErrRootSurface", err)
	}
	if err := eng.Release(a); !errors.Is(err, ErrUnknownSurface) {
		t.Errorf("Release(released) error = %v, want ErrUnknownSurface", err)
	}
}
