package dtyaml

import (
	"errors"
	"strings"
)

// ParsePointer decodes an RFC6901 pointer (e.g. "/properties/clocks/0")
// into path components: ["properties","clocks","0"].
// Returns an empty path for "" or "/".
func ParsePointer(ptr string) ([]string, error) {
	if ptr == "" || ptr == "/" {
		return []string{}, nil
	}
	if !strings.HasPrefix(ptr, "/") {
		return nil, errors.New("invalid json pointer: must start with '/'")
	}
	parts := strings.Split(ptr[1:], "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		p = strings.ReplaceAll(p, "~0", "~")
		parts[i] = p
	}
	return parts, nil
}

// FormatPointer is the inverse of ParsePointer
func FormatPointer(path []string) string {
	var b strings.Builder
	for _, p := range path {
		p = strings.ReplaceAll(p, "~", "~0")
		p = strings.ReplaceAll(p, "/", "~1")
		b.WriteString("/")
		b.WriteString(p)
	}
	return b.String()
}
