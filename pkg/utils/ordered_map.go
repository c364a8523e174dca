package utils

import (
	omap "github.com/wk8/go-ordered-map/v2"
)

// OrderedMap re-exports the generic ordered map the rest of the module
// builds on. The teacher's own pkg/jack/lowering.go reached for a type
// named exactly this (utils.OrderedMap[string, jack.Subroutine]) to solve
// reproducible-build ordering, but never defined it -- NewLowerer instead
// hand-rolled a sort-then-rebuild dance over a plain slice. Aliasing the
// real library here lets its call site (ast.Program) use the name
// directly.
type OrderedMap[K comparable, V any] = omap.OrderedMap[K, V]

// NewOrderedMap constructs an empty OrderedMap, mirroring omap.New but
// giving this package's callers a stable, local entry point.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return omap.New[K, V]()
}
