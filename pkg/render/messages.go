package render

import "strings"

// pointerUnescaper decodes JSON pointer reference tokens (RFC 6901).
var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// MergeMessages concatenates and normalises message slices, trimming
// whitespace and removing duplicates while preserving order.
func MergeMessages(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MessagesFor collects the messages of a server error payload that target
// one of names. Keys may be plain names, dotted paths or JSON pointers such
// as "/data/attributes/email". A key matches when the whole path or its last
// non-numeric segment equals a name, so envelope segments like "data" only
// count when they end the path.
func MessagesFor(payload map[string][]string, names ...string) []string {
	if len(payload) == 0 || len(names) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			wanted[name] = struct{}{}
		}
	}

	var out []string
	for _, key := range sortedKeys(payload) {
		path, segments := splitPath(key)
		if _, ok := wanted[path]; ok {
			out = append(out, payload[key]...)
			continue
		}
		if _, ok := wanted[lastSegment(segments)]; ok {
			out = append(out, payload[key]...)
		}
	}
	return normalizeMessages(out)
}

// splitPath returns the unescaped path and its segments. Paths starting
// with "/" are JSON pointers; anything else splits on dots.
func splitPath(raw string) (string, []string) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") {
		return raw, strings.Split(raw, ".")
	}
	segments := strings.Split(raw[1:], "/")
	for idx, segment := range segments {
		segments[idx] = pointerUnescaper.Replace(segment)
	}
	return strings.Join(segments, "/"), segments
}

func lastSegment(segments []string) string {
	for idx := len(segments) - 1; idx >= 0; idx-- {
		segment := strings.TrimSpace(segments[idx])
		if segment == "" || isNumeric(segment) {
			continue
		}
		return segment
	}
	return ""
}

func isNumeric(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
