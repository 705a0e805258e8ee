package ast

// Snapshot returns the stable textual form of a node (its String form,
// or "" for nil). No pass or test in this module calls it.
func Snapshot(n Node) string {
	if n == nil {
		return ""
	}
	return n.String()
}
