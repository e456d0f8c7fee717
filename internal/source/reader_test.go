package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalkReaderList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main/java/com/acme/App.java", "class App {}\r\n")
	writeFile(t, root, "src/main/java/com/acme/README.md", "docs")
	writeFile(t, root, "target/classes/Gen.java", "class Gen {}")
	writeFile(t, root, "vendor/Lib.java", "class Lib {}")

	excl, err := CompileExcludes([]string{DefaultExclude})
	require.NoError(t, err)

	units, err := NewWalkReader(root, []string{".java"}, excl).List(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "src/main/java/com/acme/App.java", units[0].RelPath)
	assert.Equal(t, "class App {}\n", units[0].Src)
}

func TestWalkReaderCanceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "A.java", "class A {}")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewWalkReader(root, []string{".java"}, nil).List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompileExcludes(t *testing.T) {
	res, err := CompileExcludes([]string{"", "  ", `_test\.go$`})
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.True(t, Excluded("pkg/a_test.go", res))
	assert.False(t, Excluded("pkg/a.go", res))

	_, err = CompileExcludes([]string{"("})
	assert.Error(t, err)
}

func TestRelPosix(t *testing.T) {
	root := filepath.Join("a", "b")
	assert.Equal(t, "c/d.go", RelPosix(root, filepath.Join("a", "b", "c", "d.go")))
}
