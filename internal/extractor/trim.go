package extractor

import (
	"regexp"
	"strings"

	"github.com/vd09-projects/relctx/internal/utils"
)

// very simple comment removers (regex-based; will NOT respect strings)
var slCommentRe = regexp.MustCompile(`(?m)//[^\n]*`)
var mlCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

// trimDeclCode strips comments from the body and caps the result at
// maxLines. The header up to the first "{" is kept intact; a zero maxLines
// only strips comments.
func trimDeclCode(full string, maxLines int) (string, int) {
	full = utils.NormalizeCode(full)

	openIdx := strings.Index(full, "{")
	if openIdx == -1 {
		return finish(utils.CapLines(utils.NormalizeCode(removeComments(full)), maxLines))
	}

	sig := full[:openIdx+1]
	body := removeComments(full[openIdx+1:])

	sigLines := strings.Split(sig, "\n")
	bodyLines := strings.Split(body, "\n")
	sigLines[len(sigLines)-1] += strings.TrimRight(bodyLines[0], " \t")
	bodyLines = dropCommentOnly(bodyLines[1:])

	remaining := maxLines - len(sigLines)
	if maxLines <= 0 || len(bodyLines) <= remaining {
		return finish(strings.Join(append(sigLines, bodyLines...), "\n"))
	}
	if remaining <= 0 {
		return finish(strings.Join(sigLines, "\n") + "\n// ... trimmed ...")
	}
	out := append(sigLines, bodyLines[:remaining]...)
	out = append(out, "// ... trimmed ...")
	return finish(strings.Join(out, "\n"))
}

func removeComments(s string) string {
	// order matters: strip block comments first, then line comments
	s = mlCommentRe.ReplaceAllString(s, "")
	s = slCommentRe.ReplaceAllString(s, "")
	return strings.TrimRight(s, "\n")
}

// dropCommentOnly removes lines that held nothing but a comment. Blank
// lines were already emptied by NormalizeCode and are kept.
func dropCommentOnly(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" && strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, strings.TrimRight(l, " \t"))
	}
	return out
}

func finish(s string) (string, int) {
	s = strings.TrimRight(s, "\n")
	return s + "\n", utils.LineCount(s)
}
