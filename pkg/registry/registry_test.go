package registry

import (
	"testing"

	"github.com/jackc-project/jackc/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterClassRejectsDuplicate(t *testing.T) {
	r := New()
	assert.True(t, r.RegisterClass("Foo"))
	assert.False(t, r.RegisterClass("Foo"))
}

func TestRegisterMethodRejectsDuplicate(t *testing.T) {
	r := New()
	r.RegisterClass("Foo")
	sig := &Signature{Kind: Function}
	assert.True(t, r.RegisterMethod("Foo", "bar", sig))
	assert.False(t, r.RegisterMethod("Foo", "bar", sig))
}

func TestClassExistsForPrimitives(t *testing.T) {
	r := New()
	assert.True(t, r.ClassExists(types.Int))
	assert.True(t, r.ClassExists(types.Void))
	assert.False(t, r.ClassExists("Foo"))
	r.RegisterClass("Foo")
	assert.True(t, r.ClassExists("Foo"))
}

func TestGetSignatureFailsWhenAbsent(t *testing.T) {
	r := New()
	_, err := r.GetSignature("Foo", "bar")
	require.Error(t, err)

	r.RegisterClass("Foo")
	_, err = r.GetSignature("Foo", "bar")
	require.Error(t, err)
}

func TestCheckMainEntry(t *testing.T) {
	treg := types.New()

	r := New()
	err := r.CheckMainEntry()
	require.Error(t, err)

	r.RegisterClass("Main")
	r.RegisterMethod("Main", "main", &Signature{Kind: Method, ReturnType: treg.GetOrCreate(types.Void)})
	require.Error(t, r.CheckMainEntry(), "main declared as a method, not a function, must fail")

	r2 := New()
	r2.RegisterClass("Main")
	r2.RegisterMethod("Main", "main", &Signature{Kind: Function, ReturnType: treg.GetOrCreate(types.Int)})
	require.Error(t, r2.CheckMainEntry(), "non-void return type must fail")

	r3 := New()
	r3.RegisterClass("Main")
	r3.RegisterMethod("Main", "main", &Signature{Kind: Function, ReturnType: treg.GetOrCreate(types.Void)})
	require.NoError(t, r3.CheckMainEntry())
}
