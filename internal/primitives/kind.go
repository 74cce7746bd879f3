package primitives

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is a primitive type. The integer value is what scene files persist.
type Kind int

const (
	Cube Kind = iota
	Sphere
	Cylinder
	Plane
)

// Kinds lists every known kind in persisted order.
var Kinds = []Kind{Cube, Sphere, Cylinder, Plane}

var kindNames = [...]string{"cube", "sphere", "cylinder", "plane"}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k >= Cube && k <= Plane
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts a kind name ("cube", "Sphere", ...) or its integer value.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if s == name {
			return Kind(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Kind(n).Valid() {
		return Kind(n), nil
	}
	return 0, fmt.Errorf("unknown primitive %q (want cube, sphere, cylinder or plane)", s)
}
