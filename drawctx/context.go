package drawctx

// DefaultSaveStackDepth is used when a Context is built with NewContext;
// callers needing a different bound (the config.Config.SaveStackDepth
// tunable) should use NewContextWithDepth.
const DefaultSaveStackDepth = 16

// Context is a per-layer current State plus a bounded save-stack. Save
// pushes a copy of the current state; Restore pops the most recently saved
// one; Reset clears to defaults and empties the stack. It persists across
// frames: decoder.New creates one per layer id up front, and its state
// survives unless the producer emits ResetContext.
type Context struct {
	current State
	stack   []State
	depth   int
}

// NewContext returns a Context at the specification's default state with
// the default save-stack depth.
func NewContext() *Context {
	return NewContextWithDepth(DefaultSaveStackDepth)
}

// NewContextWithDepth returns a Context with a save-stack bounded to depth
// entries.
func NewContextWithDepth(depth int) *Context {
	if depth < 0 {
		depth = 0
	}
	return &Context{current: DefaultState(), depth: depth}
}

// Current returns the active drawing state.
func (c *Context) Current() State {
	return c.current
}

// SetCurrent replaces the active drawing state outright (used by SetContext
// property application).
func (c *Context) SetCurrent(s State) {
	c.current = s
}

// Save pushes a copy of the current state. If the stack is already at
// capacity the save is silently dropped — the wire format has no channel
// to report a stack fault, and producers are expected to balance
// Save/Restore.
func (c *Context) Save() {
	if len(c.stack) >= c.depth {
		return
	}
	c.stack = append(c.stack, c.current)
}

// Restore pops the most recently saved state and makes it current. An
// underflowing Restore (empty stack) is silently ignored.
func (c *Context) Restore() {
	if len(c.stack) == 0 {
		return
	}
	last := len(c.stack) - 1
	c.current = c.stack[last]
	c.stack = c.stack[:last]
}

// Reset returns the state to defaults and empties the stack regardless of
// depth.
func (c *Context) Reset() {
	c.current = DefaultState()
	c.stack = c.stack[:0]
}

// StackLen reports the number of entries currently saved, for tests.
func (c *Context) StackLen() int {
	return len(c.stack)
}
