package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// OffsetAt converts a 1-based line and column into a byte offset of src.
func OffsetAt(src string, line, col int) (int, bool) {
	if line < 1 || col < 1 {
		return 0, false
	}
	off := 0
	for l := 1; l < line; l++ {
		i := strings.IndexByte(src[off:], '\n')
		if i < 0 {
			return 0, false
		}
		off += i + 1
	}
	end := strings.IndexByte(src[off:], '\n')
	if end < 0 {
		end = len(src) - off
	}
	if col-1 > end {
		return 0, false
	}
	return off + col - 1, true
}

// LineAt returns the 1-based line of offset in src.
func LineAt(src string, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	if offset < 0 {
		offset = 0
	}
	return strings.Count(src[:offset], "\n") + 1
}

// ParsePosition reads either a byte offset ("812") or a 1-based
// "line:col" pair and returns the byte offset into src.
func ParsePosition(src, pos string) (int, error) {
	if l, c, ok := strings.Cut(pos, ":"); ok {
		line, err1 := strconv.Atoi(l)
		col, err2 := strconv.Atoi(c)
		if err1 != nil || err2 != nil {
			return 0, fmt.Errorf("position %q: want line:col", pos)
		}
		off, ok := OffsetAt(src, line, col)
		if !ok {
			return 0, fmt.Errorf("position %q is outside the file", pos)
		}
		return off, nil
	}
	off, err := strconv.Atoi(pos)
	if err != nil {
		return 0, fmt.Errorf("position %q: want an offset or line:col", pos)
	}
	if off < 0 || off > len(src) {
		return 0, fmt.Errorf("offset %d is outside the file (%d bytes)", off, len(src))
	}
	return off, nil
}
