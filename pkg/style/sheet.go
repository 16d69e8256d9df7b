package style

// Sheet maps an element tag name to the style applied when an element of
// that tag is created through the document API.
type Sheet map[string]Style

// em is the base font size the default sheet's vertical rhythm is built on.
const em = 16

// DefaultSheet returns the built-in default style sheet. Each call returns
// a fresh copy.
func DefaultSheet() Sheet {
	heading := func() Style { return Style{"marginBottom": 0.5 * em} }
	return Sheet{
		"body":   {"width": "100%", "height": "100%"},
		"h1":     heading(),
		"h2":     heading(),
		"h3":     heading(),
		"h4":     heading(),
		"h5":     heading(),
		"h6":     heading(),
		"p":      {"marginBottom": 1 * em},
		"input":  {"padding": 5},
		"button": {
			"backgroundColor":   "#2196F3",
			"paddingHorizontal": 10,
			"borderRadius":      2,
			"justifyContent":    "space-around",
		},
	}
}

// For returns a copy of the style registered for tag, or nil.
func (s Sheet) For(tag string) Style {
	st, ok := s[tag]
	if !ok || len(st) == 0 {
		return nil
	}
	return cloneMap(st)
}

// Merge returns a sheet with the entries of other replacing those of s.
func (s Sheet) Merge(other Sheet) Sheet {
	out := make(Sheet, len(s)+len(other))
	for tag, st := range s {
		out[tag] = st
	}
	for tag, st := range other {
		out[tag] = st
	}
	return out
}
