package vocab

// Context is a sliding window over the most recent symbol indices.
// A new window holds only delimiters.
type Context struct {
	window []int
}

// NewContext returns an all-delimiter window of blockSize symbols.
func NewContext(blockSize int) *Context {
	return &Context{window: make([]int, blockSize)}
}

// Slide drops the oldest index and appends index.
func (c *Context) Slide(index int) {
	if len(c.window) == 0 {
		return
	}
	copy(c.window, c.window[1:])
	c.window[len(c.window)-1] = index
}

// Indices returns a copy of the window, oldest first.
func (c *Context) Indices() []int {
	return append([]int(nil), c.window...)
}

// Int32 returns the window as int32, the dtype index tensors use.
func (c *Context) Int32() []int32 {
	out := make([]int32, len(c.window))
	for i, v := range c.window {
		out[i] = int32(v)
	}
	return out
}

// Len returns the window length.
func (c *Context) Len() int {
	return len(c.window)
}
