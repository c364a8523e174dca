package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandlerCompilesValidProgram(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "Main.jack")
	require.NoError(t, os.WriteFile(main, []byte(`
		class Main {
			constructor Main new() {
				return this;
			}
			function void main() {
				return;
			}
		}
	`), 0o644))

	status := handler([]string{dir}, map[string]string{})
	require.Equal(t, 0, status)

	_, err := os.Stat(filepath.Join(dir, "Main.vm"))
	require.NoError(t, err)
}

func TestHandlerFailsWithoutInputs(t *testing.T) {
	status := handler([]string{}, map[string]string{})
	require.Equal(t, 1, status)
}

func TestHandlerFailsOnMissingMain(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Foo.jack"), []byte(`
		class Foo {
			constructor Foo new() {
				return this;
			}
		}
	`), 0o644))

	status := handler([]string{dir}, map[string]string{})
	require.Equal(t, 1, status)
}

func TestHandlerRejectsInvalidLogLevel(t *testing.T) {
	status := handler([]string{"."}, map[string]string{"log-level": "not-a-level"})
	require.Equal(t, 1, status)
}
