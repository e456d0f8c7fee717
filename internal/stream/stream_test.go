package stream

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestEmitterAppendsWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	em := NewJSONLEmitter[entry](path, nil, true)
	em.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	require.NoError(t, em.Emit([]entry{{"a", 1}, {"b", 2}}))
	require.NoError(t, em.EmitOne(entry{"c", 3}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Run at 2024-05-01T10:00:00Z\n"+
		`{"name":"a","count":1}`+"\n"+
		`{"name":"b","count":2}`+"\n"+
		`{"name":"c","count":3}`+"\n", string(b))

	// a second run appends after its own header
	again := NewJSONLEmitter[entry](path, nil, true)
	require.NoError(t, again.EmitOne(entry{"d", 4}))

	r, err := NewJSONLReader[entry](path, nil)
	require.NoError(t, err)
	defer r.Close()
	all, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []entry{{"a", 1}, {"b", 2}, {"c", 3}, {"d", 4}}, all)
}

func TestWriterWithCustomEncoder(t *testing.T) {
	var buf bytes.Buffer
	em := NewJSONLWriter(&buf, func(e entry) ([]byte, error) {
		return []byte(strings.ToUpper(e.Name)), nil
	}, false)
	require.NoError(t, em.Emit([]entry{{Name: "x"}, {Name: "y"}}))
	assert.Equal(t, "X\nY\n", buf.String())
}

func TestReaderGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.jsonl.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte("# header\n\n{\"name\":\"z\",\"count\":9}\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	r, err := NewJSONLReader[entry](path, nil)
	require.NoError(t, err)
	defer r.Close()

	v, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry{"z", 9}, v)

	_, ok, err = r.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReaderReportsBadLine(t *testing.T) {
	r := NewJSONLReaderFrom[entry](strings.NewReader("{\"name\":\"ok\"}\nnot json\n"), nil)
	_, err := r.ReadAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReaderMissingFile(t *testing.T) {
	_, err := NewJSONLReader[entry](filepath.Join(t.TempDir(), "nope.jsonl"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReaderDetectsGzipWithoutExtension(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`{"name":"q","count":1}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	all, err := NewJSONLReaderFrom[entry](&buf, nil).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []entry{{"q", 1}}, all)
}
