package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetAt(t *testing.T) {
	src := "ab\ncde\n\nf"

	tests := []struct {
		line, col int
		want      int
		ok        bool
	}{
		{1, 1, 0, true},
		{1, 3, 2, true},
		{2, 2, 4, true},
		{3, 1, 7, true},
		{4, 1, 8, true},
		{4, 3, 0, false},
		{5, 1, 0, false},
		{0, 1, 0, false},
	}
	for _, tt := range tests {
		got, ok := OffsetAt(src, tt.line, tt.col)
		assert.Equal(t, tt.ok, ok, "line %d col %d", tt.line, tt.col)
		if tt.ok {
			assert.Equal(t, tt.want, got, "line %d col %d", tt.line, tt.col)
		}
	}
}

func TestLineAt(t *testing.T) {
	src := "a\nb\nc"
	assert.Equal(t, 1, LineAt(src, 0))
	assert.Equal(t, 2, LineAt(src, 2))
	assert.Equal(t, 3, LineAt(src, 100))
}

func TestDeclContainer(t *testing.T) {
	class := &Decl{Kind: KindClass, Qualified: "example.com/app/store.Repo", Package: "example.com/app/store"}
	method := &Decl{Kind: KindMethod, Owner: class, Package: "example.com/app/store"}
	fn := &Decl{Kind: KindMethod, Package: "example.com/app/store"}

	assert.Equal(t, "example.com/app/store.Repo", class.Container())
	assert.Equal(t, "example.com/app/store.Repo", method.Container())
	assert.Equal(t, "example.com/app/store", fn.Container())
	assert.Equal(t, "", (*Decl)(nil).Container())
}

func TestTypeEmpty(t *testing.T) {
	assert.True(t, Type{}.Empty())
	assert.True(t, Type{Args: []*Decl{nil}}.Empty())
	assert.False(t, Type{Args: []*Decl{{Name: "A"}}}.Empty())
	assert.False(t, Type{Class: &Decl{Name: "B"}}.Empty())
}

func TestParsePosition(t *testing.T) {
	src := "ab\ncde\n"

	off, err := ParsePosition(src, "2:3")
	assert.NoError(t, err)
	assert.Equal(t, 5, off)

	off, err = ParsePosition(src, "4")
	assert.NoError(t, err)
	assert.Equal(t, 4, off)

	for _, bad := range []string{"x", "2:y", "9:1", "-1", "100"} {
		_, err := ParsePosition(src, bad)
		assert.Error(t, err, bad)
	}
}
