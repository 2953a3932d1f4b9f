package clean

import (
	"strings"

	"github.com/dgallion1/textprep/internal/protect"
	"golang.org/x/net/html"
)

// RemoveHTML strips markup and decodes HTML entities. Malformed markup is
// handled best-effort by the tokenizer; the stage never fails. Script and
// style content is dropped entirely. Runs before entity extraction, so the
// protected set is always empty here.
func RemoveHTML(text string, _ protect.Set, _ Params) (string, bool) {
	if !strings.ContainsAny(text, "<&") {
		return text, false
	}
	if !strings.Contains(text, "<") {
		// Entities only, no tags.
		out := html.UnescapeString(text)
		return out, len(out) != len(text)
	}

	tok := html.NewTokenizer(strings.NewReader(text))
	var sb strings.Builder
	skipDepth := 0

	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			// EOF or unrecoverable input; return what we have.
			out := sb.String()
			return out, len(out) != len(text)
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(tok.Text())
			}
		case html.StartTagToken:
			name, _ := tok.TagName()
			if skipContent(string(name)) {
				skipDepth++
			}
			sb.WriteByte(' ')
		case html.EndTagToken:
			name, _ := tok.TagName()
			if skipContent(string(name)) && skipDepth > 0 {
				skipDepth--
			}
			sb.WriteByte(' ')
		case html.SelfClosingTagToken, html.CommentToken, html.DoctypeToken:
			sb.WriteByte(' ')
		}
	}
}

func skipContent(tag string) bool {
	switch tag {
	case "script", "style", "noscript":
		return true
	}
	return false
}
