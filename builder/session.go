package builder

// Session applies operations from one builder and keeps an undo/redo history.
type Session struct {
	builder DiagramBuilder
	done    []Operation // Applied operations, oldest first
	undone  []Operation // Undone operations, most recent last
	max     int         // Maximum number of operations to keep
}

// NewSession creates a session for b keeping at most max operations.
func NewSession(b DiagramBuilder, max int) *Session {
	if max <= 0 {
		max = 50
	}
	return &Session{
		builder: b,
		done:    make([]Operation, 0, max),
		max:     max,
	}
}

// Builder returns the builder the session edits through.
func (s *Session) Builder() DiagramBuilder {
	return s.builder
}

// Apply executes op and records it. Anything that was undone can no longer be redone.
func (s *Session) Apply(op Operation) {
	op.Execute()
	s.undone = s.undone[:0]
	s.done = append(s.done, op)

	// If we exceed max, forget the oldest
	if len(s.done) > s.max {
		s.done = s.done[1:]
	}
}

// CanUndo returns true if we can undo
func (s *Session) CanUndo() bool {
	return len(s.done) > 0
}

// CanRedo returns true if we can redo
func (s *Session) CanRedo() bool {
	return len(s.undone) > 0
}

// Undo reverts the most recent operation.
func (s *Session) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	op := s.done[len(s.done)-1]
	s.done = s.done[:len(s.done)-1]
	op.Undo()
	s.undone = append(s.undone, op)
	return true
}

// Redo re-applies the most recently undone operation.
func (s *Session) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	op := s.undone[len(s.undone)-1]
	s.undone = s.undone[:len(s.undone)-1]
	op.Execute()
	s.done = append(s.done, op)
	return true
}

// Stats returns the current position and the total number of recorded operations.
func (s *Session) Stats() (current, total int) {
	return len(s.done), len(s.done) + len(s.undone)
}
