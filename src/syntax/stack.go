package syntax

// NoState is the state of an ephemeral frame carried by a shift-reduce action.
// Such a frame is reduced away before it could ever reach the stack.
const NoState = -1

// Frame is a single entry on the parse stack: the state the parser was in
// after the entry was pushed and the AST fragments collected while it was on
// top of the stack.  A shifted terminal contributes at most one leaf; a frame
// pushed after a transparent reduce may carry any number of fragments.
type Frame struct {
	State int
	Nodes []*Node
	Span  Span
}

// Stack is the parse stack.  It always contains at least the bottom frame
// (state 0) while a parse is in progress.
type Stack struct {
	frames []Frame
}

// NewStack creates a stack containing only the bottom frame
func NewStack() *Stack {
	s := &Stack{frames: make([]Frame, 0, 64)}
	s.Reset()
	return s
}

// Reset drops every frame but a fresh bottom frame
func (s *Stack) Reset() {
	// clear the old frames so their fragments can be collected
	for i := range s.frames {
		s.frames[i] = Frame{}
	}

	s.frames = append(s.frames[:0], Frame{State: 0, Span: NoSpan})
}

// Len is the number of frames on the stack (including the bottom frame)
func (s *Stack) Len() int {
	return len(s.frames)
}

// Top returns the frame on top of the stack
func (s *Stack) Top() *Frame {
	return &s.frames[len(s.frames)-1]
}

// Push pushes a new frame onto the stack
func (s *Stack) Push(f Frame) {
	s.frames = append(s.frames, f)
}

// Pop removes the `k` topmost frames of a reduce and moves their fragments into
// a single list ordered left to right (as the symbols appear in the rule).
// Frames without fragments contribute nothing.  If `carry` is not nil, it
// stands for the rightmost of the `k` frames: only `k - 1` frames are taken
// from the stack and the carried frame's fragments go last.  The bottom frame
// can never be popped.
func (s *Stack) Pop(k int, carry *Frame) ([]*Node, Span) {
	fromStack := k
	if carry != nil {
		fromStack--
	}

	if fromStack < 0 || fromStack > len(s.frames)-1 {
		panic(newTableFault("cannot pop %d frames from a stack of depth %d", k, len(s.frames)))
	}

	first := len(s.frames) - fromStack

	count := 0
	for _, f := range s.frames[first:] {
		count += len(f.Nodes)
	}

	if carry != nil {
		count += len(carry.Nodes)
	}

	var nodes []*Node
	if count > 0 {
		nodes = make([]*Node, 0, count)
	}

	span := NoSpan
	for i := first; i < len(s.frames); i++ {
		nodes = append(nodes, s.frames[i].Nodes...)
		span = span.Cover(s.frames[i].Span)

		// the fragments now belong to the caller
		s.frames[i] = Frame{}
	}

	if carry != nil {
		nodes = append(nodes, carry.Nodes...)
		span = span.Cover(carry.Span)
		carry.Nodes = nil
	}

	s.frames = s.frames[:first]
	return nodes, span
}

// States returns the states of all frames from bottom to top (diagnostics)
func (s *Stack) States() []int {
	states := make([]int, len(s.frames))
	for i, f := range s.frames {
		states[i] = f.State
	}

	return states
}
