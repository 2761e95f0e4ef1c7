package builder

import (
	"errors"
	"fmt"
)

// Errors returned by builders. Returned errors wrap one of these.
var (
	ErrNodeType      = errors.New("node type not allowed in this diagram")
	ErrParent        = errors.New("invalid parent")
	ErrEdgeType      = errors.New("edge type not allowed in this diagram")
	ErrEndpoint      = errors.New("invalid edge endpoint")
	ErrDuplicateEdge = errors.New("duplicate edge")
	ErrNotFound      = errors.New("element not found")
	ErrEmptyName     = errors.New("name must not be empty")
	ErrLabel         = errors.New("invalid edge label")
)

// Violation is a rule broken by an element already present in a diagram.
type Violation struct {
	ID  int
	Err error
}

func (v Violation) Error() string {
	return fmt.Sprintf("element %d: %v", v.ID, v.Err)
}

func (v Violation) Unwrap() error {
	return v.Err
}
