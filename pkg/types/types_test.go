package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jackc-project/jackc/pkg/types"
)

func TestInterningGivesSamePointer(t *testing.T) {
	r := types.New()

	a := r.GetOrCreate("Fraction")
	b := r.GetOrCreate("Fraction")
	require.Same(t, a, b)
}

func TestPrimitivesPreseeded(t *testing.T) {
	r := types.New()

	intType := r.GetOrCreate(types.Int)
	require.True(t, intType.IsPrimitive())
	require.Equal(t, "int", intType.String())
}

func TestArrayGenericDisplayVsIdentity(t *testing.T) {
	r := types.New()

	array := r.GetOrCreate("Array")
	intType := r.GetOrCreate(types.Int)
	arrayOfInt := r.GetOrCreate("Array", intType)

	// Per spec §3/§9, Array<T> is equivalent to Array for checking
	// purposes: both interning calls collapse to the same pointer.
	require.Same(t, array, arrayOfInt)
}

func TestNullUnifiesWithClassNotPrimitive(t *testing.T) {
	r := types.New()

	null := r.GetOrCreate(types.Null)
	class := r.GetOrCreate("Fraction")
	intType := r.GetOrCreate(types.Int)

	require.True(t, types.Equal(null, class))
	require.False(t, types.Equal(null, intType))
}
