// Package pathtree implements the materialized-path encoding used by the
// node table: dot-separated positive integers, where a root's path is its
// own ID and a child's path appends a 1-based sibling index to its
// parent's path.
package pathtree

import (
	"strconv"
	"strings"
)

// Depth returns the depth of a path, which equals its dot count. Roots
// have depth zero.
func Depth(path string) int {
	return strings.Count(path, ".")
}

// IsRoot reports whether the path belongs to a root node (no dots).
func IsRoot(path string) bool {
	return !strings.Contains(path, ".")
}

// ParentPath returns the path of the node's immediate parent. The second
// return value is false for root paths, which have no parent.
func ParentPath(path string) (string, bool) {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return "", false
	}
	return path[:idx], true
}

// ChildPrefix returns the prefix shared by every descendant of the given
// path. Descendant matching must use this dot-bounded prefix, never the
// raw path, so that "2.1" does not match "2.10".
func ChildPrefix(path string) string {
	return path + "."
}

// ChildPath builds the path for a new child given its parent's path and
// a 1-based sibling index.
func ChildPath(parentPath string, index int) string {
	return parentPath + "." + strconv.Itoa(index)
}

// Less compares two paths component-wise as integers, component by
// component. This is the canonical sibling ordering: "1.9" sorts before
// "1.10", which plain string comparison gets wrong. A path that is a
// strict prefix of the other sorts first. Malformed components compare
// as zero.
func Less(a, b string) bool {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		av, _ := strconv.Atoi(as[i])
		bv, _ := strconv.Atoi(bs[i])
		if av != bv {
			return av < bv
		}
	}
	return len(as) < len(bs)
}
