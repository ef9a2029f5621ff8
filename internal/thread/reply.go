package thread

import (
	"strconv"
	"strings"
)

// ParseReply splits an optional "@N" reply prefix off comment text.
//
// The text is trimmed first. When it starts with '@' followed by a run of
// decimal digits that fits in an int64, that numeral is the parent post
// index and the body is what remains after the numeral and any further
// digits or whitespace. Otherwise the whole trimmed text is the body.
func ParseReply(raw string) (string, *int64) {
	t := strings.TrimSpace(raw)
	if !strings.HasPrefix(t, "@") {
		return t, nil
	}

	rest := t[1:]
	end := strings.IndexFunc(rest, func(r rune) bool { return !isDigit(r) })
	if end < 0 {
		end = len(rest)
	}

	parent, err := strconv.ParseInt(rest[:end], 10, 64)
	if err != nil {
		return t, nil
	}

	body := strings.TrimLeftFunc(rest, func(r rune) bool {
		return isDigit(r) || r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
	return body, &parent
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
