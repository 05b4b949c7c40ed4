package orch

import (
	"strings"
	"unicode"
)

var whisperPrefixes = []string{"/w ", "/whisper "}

// parseWhisper splits "/w <target> <body>". prefixed reports whether text
// starts with a whisper prefix at all; ok reports a complete command.
// The target is a single token; the first whitespace run after it is the
// separator and the rest is the body, kept as is.
func parseWhisper(text string) (target, body string, prefixed, ok bool) {
	var rest string
	for _, p := range whisperPrefixes {
		if strings.HasPrefix(text, p) {
			rest, prefixed = text[len(p):], true
			break
		}
	}
	if !prefixed {
		return "", "", false, false
	}

	end := strings.IndexFunc(rest, unicode.IsSpace)
	if end <= 0 {
		return "", "", true, false
	}
	target = rest[:end]
	body = strings.TrimLeftFunc(rest[end:], unicode.IsSpace)
	if body == "" {
		return "", "", true, false
	}
	return target, body, true, true
}
