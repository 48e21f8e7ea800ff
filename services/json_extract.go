package services

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls the first-'{' to last-'}' span out of a model reply and
// checks that it parses. Replies should be pure JSON but often carry leading
// or trailing commentary around the object. No brace balancing is attempted;
// a reply without a brace pair, or whose span does not parse, reports false.
func ExtractJSON(reply string) (string, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	clean := reply[start : end+1]
	if !json.Valid([]byte(clean)) {
		return "", false
	}
	return clean, true
}
