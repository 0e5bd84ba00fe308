package integrations

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoScriptData is returned when a page carries no script with the marker.
var ErrNoScriptData = errors.New("embedded script data not found")

// ScriptJSON finds the first inline <script> whose text contains marker and
// returns the JSON value that follows it, for pages that ship their state as
// `var _data = [...];` or `window.initialState = {...};`.
func ScriptJSON(page, marker string) ([]byte, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	var found []byte
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" && n.FirstChild != nil {
			if raw, ok := extractAfter(n.FirstChild.Data, marker); ok {
				found = raw
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	if found == nil {
		return nil, ErrNoScriptData
	}
	return found, nil
}

// extractAfter returns the balanced JSON object or array that starts at the
// first '{' or '[' after marker.
func extractAfter(text, marker string) ([]byte, bool) {
	i := strings.Index(text, marker)
	if i < 0 {
		return nil, false
	}
	rest := text[i+len(marker):]
	start := strings.IndexAny(rest, "[{")
	if start < 0 {
		return nil, false
	}
	end := matchBrackets(rest[start:])
	if end < 0 {
		return nil, false
	}
	return []byte(rest[start : start+end]), true
}

// matchBrackets returns the length of the bracketed value at the start of s,
// skipping brackets inside string literals. It returns -1 if unbalanced.
func matchBrackets(s string) int {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}
