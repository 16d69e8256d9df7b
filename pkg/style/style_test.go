package style

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/scenesync/pkg/native"
)

func TestFlattenLastWriterWins(t *testing.T) {
	src := []any{
		Style{"padding": 1, "backgroundColor": "red"},
		[]any{Style{"padding": 2}, nil, false},
		Style{"margin": 3},
	}

	flat, err := Flatten(src)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}

	want := Style{"padding": 2, "backgroundColor": "red", "margin": 3}
	if diff := cmp.Diff(want, flat); diff != "" {
		t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenNoContribution(t *testing.T) {
	for _, src := range []Source{nil, false, []any{}, []any{nil, false}} {
		flat, err := Flatten(src)
		if err != nil {
			t.Fatalf("Flatten(%v) error = %v", src, err)
		}
		if len(flat) != 0 {
			t.Errorf("Flatten(%v) = %v, want empty", src, flat)
		}
	}
}

func TestFlattenScalarFails(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		path []int
	}{
		{"root_string", "red", nil},
		{"root_true", true, nil},
		{"root_number", 5, nil},
		{"nested_number", []any{Style{}, []any{nil, 7}}, []int{1, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Flatten(tc.src)
			if !errors.Is(err, ErrStyleComposition) {
				t.Fatalf("error = %v, want ErrStyleComposition", err)
			}
			var ce *CompositionError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not *CompositionError", err)
			}
			if diff := cmp.Diff(tc.path, ce.Path); diff != "" {
				t.Errorf("Path mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompilePaddingShorthands(t *testing.T) {
	c, err := Compile(Style{
		"padding":           5,
		"paddingHorizontal": 10,
		"paddingTop":        "50%",
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := &native.Insets{
		Top:    native.Percent(50),
		Right:  native.Point(10),
		Bottom: native.Point(5),
		Left:   native.Point(10),
	}
	if diff := cmp.Diff(want, c.Padding); diff != "" {
		t.Errorf("Padding mismatch (-want +got):\n%s", diff)
	}
	if c.Margin != nil {
		t.Errorf("Margin = %v, want nil", c.Margin)
	}
}

func TestCompileFields(t *testing.T) {
	c, err := Compile([]any{
		Style{
			"width":           "100%",
			"overflow":        "hidden",
			"flex":            1,
			"flexDirection":   "row",
			"justifyContent":  "space-between",
			"borderRadius":    4,
			"shadowOffset":    Style{"width": 1, "height": 2},
			"shadowRadius":    3,
			"backgroundColor": "#fff",
			"backgroundImage": "img/bg.png",
			"borderWidth":     1,
			"borderColor":     "rgba(0, 0, 0, 0.5)",
		},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := Canonical{
		Size:            &native.Size{Width: native.Percent(100), Height: native.Auto},
		Overflow:        ptr(native.OverflowHidden),
		Flex:            &native.Flex{Grow: 1, Shrink: 1, Basis: native.Point(0)},
		Flow:            &native.Flow{Direction: native.DirectionRow, Justify: native.AlignSpaceBetween},
		BorderRadius:    &native.Corners{TopLeft: 4, TopRight: 4, BottomRight: 4, BottomLeft: 4},
		BoxShadow:       &native.Shadow{OffsetX: 1, OffsetY: 2, Blur: 3, Color: native.Color{A: 255}},
		BackgroundColor: &native.Color{R: 255, G: 255, B: 255, A: 255},
		Image:           ptr("img/bg.png"),
		Border:          &native.Border{Width: 1, Style: native.BorderSolid, Color: native.Color{A: 128}},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileBadValue(t *testing.T) {
	_, err := Compile(Style{"padding": true})
	if !errors.Is(err, ErrStyleValue) {
		t.Fatalf("error = %v, want ErrStyleValue", err)
	}
	var ve *ValueError
	if !errors.As(err, &ve) || ve.Key != "padding" {
		t.Errorf("error = %v, want ValueError for padding", err)
	}
}

func TestCompileIgnoresUnknownAndNil(t *testing.T) {
	c, err := Compile(Style{"fontSize": 12, "backgroundColor": nil})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !c.IsEmpty() {
		t.Errorf("Compile() = %+v, want empty", c)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want native.Color
	}{
		{"#fff", native.Color{R: 255, G: 255, B: 255, A: 255}},
		{"#ff000080", native.Color{R: 255, A: 128}},
		{"#0f08", native.Color{G: 255, A: 136}},
		{"rgb(1, 2, 3)", native.Color{R: 1, G: 2, B: 3, A: 255}},
		{"transparent", native.Color{}},
		{"RoyalBlue", native.Color{R: 65, G: 105, B: 225, A: 255}},
	}

	for _, tc := range tests {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Errorf("ParseColor(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "#12", "rgb(1,2)", "rgba(1,2,3,4)", "nocolor"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) succeeded, want error", bad)
		}
	}
}

func TestPatchOnlyBackgroundColor(t *testing.T) {
	prev, _ := Compile(Style{"padding": 5, "backgroundColor": "#000"})
	next, _ := Compile(Style{"padding": 5, "backgroundColor": "#fff"})

	rec := native.NewRecorder()
	n := Patch(rec, 7, next, prev)

	if n != 1 {
		t.Fatalf("Patch() = %d calls, want 1", n)
	}
	if diff := cmp.Diff([]string{"SetBackgroundColor"}, rec.Methods()); diff != "" {
		t.Errorf("methods mismatch (-want +got):\n%s", diff)
	}
	if got := rec.Calls()[0]; got.Surface != 7 || got.Value != (native.Color{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("call = %+v", got)
	}
}

func TestPatchEqualRecordsIssueNothing(t *testing.T) {
	a, _ := Compile(Style{"margin": 2, "borderRadius": 3})
	b, _ := Compile([]any{Style{"margin": 2}, Style{"borderRadius": 3}})

	rec := native.NewRecorder()
	if n := Patch(rec, 1, a, b); n != 0 {
		t.Errorf("Patch(equal) = %d calls, want 0", n)
	}
	if n := Patch(rec, 1, Canonical{}, Canonical{}); n != 0 {
		t.Errorf("Patch(empty) = %d calls, want 0", n)
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("recorded %v, want nothing", rec.Methods())
	}
}

func TestPatchClearsRemovedFields(t *testing.T) {
	prev, _ := Compile(Style{"padding": 5, "overflow": "hidden"})

	rec := native.NewRecorder()
	n := Patch(rec, 3, Canonical{}, prev)

	if n != 2 {
		t.Fatalf("Patch() = %d calls, want 2", n)
	}
	want := []native.Call{
		{Method: "SetOverflow", Surface: 3},
		{Method: "SetPadding", Surface: 3},
	}
	if diff := cmp.Diff(want, rec.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestCompilerMemoizes(t *testing.T) {
	c := NewCompiler()
	src := []any{Style{"padding": 1}}

	if _, err := c.Compile(src); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Compile([]any{Style{"padding": 1}}); err != nil {
		t.Fatal(err)
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d, %d; want 1, 1", hits, misses)
	}

	// Mutating the caller's map must not leak into the memo.
	src[0].(Style)["padding"] = 9
	out, err := c.Compile(src)
	if err != nil {
		t.Fatal(err)
	}
	if out.Padding.Top != native.Point(9) {
		t.Errorf("Padding.Top = %v, want 9pt", out.Padding.Top)
	}
}

func TestNilCompilerRecompiles(t *testing.T) {
	var c *Compiler
	out, err := c.Compile(Style{"margin": 1})
	if err != nil || out.Margin == nil {
		t.Fatalf("Compile() = %+v, %v", out, err)
	}
	if hits, misses := c.Stats(); hits != 0 || misses != 0 {
		t.Errorf("Stats() = %d, %d; want 0, 0", hits, misses)
	}
}

func ptr[T any](v T) *T { return &v }

func TestDefaultSheetCompiles(t *testing.T) {
	for tag, st := range DefaultSheet() {
		if _, err := CompileFlat(st); err != nil {
			t.Errorf("%s: %v", tag, err)
		}
	}
}

func TestSheetForReturnsCopy(t *testing.T) {
	sheet := DefaultSheet()
	st := sheet.For("button")
	st["backgroundColor"] = "red"

	if got := sheet["button"]["backgroundColor"]; got != "#2196F3" {
		t.Errorf("sheet mutated through For(): backgroundColor = %v", got)
	}
	if sheet.For("div") != nil {
		t.Error("For(div) != nil")
	}
}

func TestSheetMerge(t *testing.T) {
	merged := DefaultSheet().Merge(Sheet{"p": {"marginBottom": 4}, "card": {"padding": 8}})
	want := Style{"marginBottom": 4}
	if diff := cmp.Diff(want, merged.For("p")); diff != "" {
		t.Errorf("p mismatch (-want +got):\n%s", diff)
	}
	if merged.For("card") == nil || merged.For("h1") == nil {
		t.Error("Merge() lost entries")
	}
}
