package diagram

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported UML diagram kinds.
type Kind int

// Diagram kinds, in the order they are presented to users.
const (
	KindClass Kind = iota
	KindSequence
	KindState
	KindObject
	KindUseCase
)

var kindNames = [...]string{
	KindClass:    "class",
	KindSequence: "sequence",
	KindState:    "state",
	KindObject:   "object",
	KindUseCase:  "usecase",
}

// String returns the short identifier of the kind.
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindClass && k <= KindUseCase
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindClass, KindSequence, KindState, KindObject, KindUseCase}
}

// ParseKind converts a short identifier such as "class" or "use-case" to a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "use-case" {
		name = "usecase"
	}
	for _, k := range Kinds() {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown diagram kind: %q", s)
}
