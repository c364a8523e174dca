package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeJack writes name (e.g. "Main.jack") with contents src into dir and
// returns its full path.
func writeJack(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func readVM(t *testing.T, jackPath string) []string {
	t.Helper()
	vmPath := strings.TrimSuffix(jackPath, filepath.Ext(jackPath)) + ".vm"
	content, err := os.ReadFile(vmPath)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

func TestCompileSingleFileProgram(t *testing.T) {
	dir := t.TempDir()
	main := writeJack(t, dir, "Main.jack", `
		class Main {
			constructor Main new() {
				return this;
			}
			function void main() {
				return;
			}
		}
	`)

	d, err := New(false)
	require.NoError(t, err)
	require.NoError(t, d.Compile(context.Background(), []string{main}))

	lines := readVM(t, main)
	require.Equal(t, []string{
		"function Main.new 0",
		"push constant 0",
		"call Memory.alloc 1",
		"pop pointer 0",
		"push pointer 0",
		"return",
		"function Main.main 0",
		"push constant 0",
		"return",
	}, lines)
}

func TestCompileMultiFileProgramSharesRegistry(t *testing.T) {
	dir := t.TempDir()
	helper := writeJack(t, dir, "Helper.jack", `
		class Helper {
			constructor Helper new() {
				return this;
			}
			function int square(int n) {
				return n;
			}
		}
	`)
	main := writeJack(t, dir, "Main.jack", `
		class Main {
			constructor Main new() {
				return this;
			}
			function void main() {
				do Helper.square(2);
				return;
			}
		}
	`)

	d, err := New(false)
	require.NoError(t, err)
	require.NoError(t, d.Compile(context.Background(), []string{helper, main}))

	lines := readVM(t, main)
	require.Contains(t, lines, "call Helper.square 1")

	// d.Program is populated in file-discovery order by the parse phase
	// and is what generatePhase actually walks.
	require.Equal(t, 2, d.Program.Len())
	oldest := d.Program.Oldest()
	require.NotNil(t, oldest)
	require.Equal(t, "Helper", oldest.Key)
	require.Equal(t, "Main", oldest.Next().Key)
}

func TestCompileFailsWithoutMainEntry(t *testing.T) {
	dir := t.TempDir()
	only := writeJack(t, dir, "Foo.jack", `
		class Foo {
			constructor Foo new() {
				return this;
			}
		}
	`)

	d, err := New(false)
	require.NoError(t, err)
	err = d.Compile(context.Background(), []string{only})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Main")
}

func TestCompileWithStdlibResolvesOSClasses(t *testing.T) {
	dir := t.TempDir()
	main := writeJack(t, dir, "Main.jack", `
		class Main {
			constructor Main new() {
				return this;
			}
			function void main() {
				do Output.printString("hi");
				return;
			}
		}
	`)

	d, err := New(true)
	require.NoError(t, err)
	require.NoError(t, d.Compile(context.Background(), []string{main}))

	lines := readVM(t, main)
	require.Contains(t, lines, "call Output.printString 1")
}

func TestCompileAbortsOnSemanticError(t *testing.T) {
	dir := t.TempDir()
	main := writeJack(t, dir, "Main.jack", `
		class Main {
			constructor Main new() {
				return this;
			}
			function void main() {
				let x = 1;
				return;
			}
		}
	`)

	d, err := New(false)
	require.NoError(t, err)
	err = d.Compile(context.Background(), []string{main})
	require.Error(t, err)
	require.Contains(t, err.Error(), "undeclared")
}

func TestCompileFailsOnMissingFile(t *testing.T) {
	d, err := New(false)
	require.NoError(t, err)
	err = d.Compile(context.Background(), []string{"/nonexistent/Main.jack"})
	require.Error(t, err)
}
