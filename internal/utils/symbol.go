package utils

import (
	"strings"
	"unicode"
)

const trimmedMarker = "// ... trimmed ..."

// RecvBaseType turns a receiver expression "(T)", "(*T)" or "(*T[K])" into "T".
func RecvBaseType(recv string) string {
	recv = strings.TrimSpace(recv)
	if strings.HasPrefix(recv, "(") && strings.HasSuffix(recv, ")") {
		recv = strings.TrimSpace(recv[1 : len(recv)-1])
	}
	recv = strings.TrimPrefix(recv, "*")
	if i := strings.IndexByte(recv, '['); i >= 0 {
		recv = recv[:i]
	}
	return recv
}

// NormalizeCode normalizes newlines and strips trailing whitespace per line.
func NormalizeCode(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRightFunc(lines[i], unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

// CapLines keeps the first max lines of s and marks the cut.
func CapLines(s string, max int) string {
	if max <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= max {
		return s
	}
	return strings.Join(lines[:max], "\n") + "\n" + trimmedMarker
}

// LineCount counts lines the way an editor shows them.
func LineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
