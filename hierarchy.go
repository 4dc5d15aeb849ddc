package xlmap

import "strings"

// ArrowSeparator joins hierarchy segments in the human-readable label form
// written to the standard-field-name column.
const ArrowSeparator = " -> "

// PathLabel renders a dot-separated hierarchy path as an arrow label:
// "a.b.c" becomes "a -> b -> c". An empty path yields an empty label.
func PathLabel(dotPath string) string {
	if dotPath == "" {
		return ""
	}
	return strings.Join(strings.Split(dotPath, "."), ArrowSeparator)
}

// ParseLabel splits an arrow label back into its leaf name and dot path.
// "a -> b -> c" yields ("c", "a.b.c"). A label with no arrow separator is a
// plain non-hierarchical name: the whole label is the leaf and the dot path
// is empty.
func ParseLabel(label string) (leaf, dotPath string) {
	if !strings.Contains(label, strings.TrimSpace(ArrowSeparator)) {
		return strings.TrimSpace(label), ""
	}
	parts := strings.Split(label, strings.TrimSpace(ArrowSeparator))
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		segments = append(segments, strings.TrimSpace(p))
	}
	return segments[len(segments)-1], strings.Join(segments, ".")
}
