package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jackc-project/jackc/pkg/utils"
)

func TestStackPushEntriesOrder(t *testing.T) {
	var s utils.Stack[int]
	s.Push(1)
	s.Push(2)
	s.Push(3)

	require.Equal(t, []int{1, 2, 3}, s.Entries())

	top, err := s.Top()
	require.NoError(t, err)
	require.Equal(t, 3, top)
}

func TestStackAt(t *testing.T) {
	var s utils.Stack[string]
	s.Push("a")
	s.Push("b")

	v, ok := s.At(1)
	require.True(t, ok)
	require.Equal(t, "b", v)

	_, ok = s.At(5)
	require.False(t, ok)
}

func TestStackPopEmptyErrors(t *testing.T) {
	var s utils.Stack[int]
	_, err := s.Pop()
	require.Error(t, err)
}

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	om := utils.NewOrderedMap[string, int]()
	om.Set("Main", 1)
	om.Set("Array", 2)
	om.Set("Fraction", 3)

	var order []string
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		order = append(order, pair.Key)
	}
	require.Equal(t, []string{"Main", "Array", "Fraction"}, order)
}
