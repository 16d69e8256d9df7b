package style

// Compiler compiles sources and remembers the most recent result.
// Recompilation is skipped when a source is structurally equal to the
// previous one. The zero value is ready to use; a nil *Compiler always
// recompiles.
type Compiler struct {
	last   Source
	out    Canonical
	valid  bool
	hits   int
	misses int
}

// NewCompiler returns an empty Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile returns the canonical record for src.
func (c *Compiler) Compile(src Source) (Canonical, error) {
	if c == nil {
		return Compile(src)
	}
	if c.valid && Equal(src, c.last) {
		c.hits++
		return c.out, nil
	}
	c.misses++
	out, err := Compile(src)
	if err != nil {
		c.valid = false
		return Canonical{}, err
	}
	// Keep a private copy: callers may mutate their maps after the call.
	c.last = Clone(src)
	c.out = out
	c.valid = true
	return out, nil
}

// Stats returns the number of memoized and fresh compilations.
func (c *Compiler) Stats() (hits, misses int) {
	if c == nil {
		return 0, 0
	}
	return c.hits, c.misses
}
