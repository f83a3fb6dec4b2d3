package dustdoc

import "strings"

// DocNode is one node of the document tree. The root node has no
// declaration and carries the file's inner documentation.
type DocNode struct {
	// Doc is the outer doc block that immediately preceded the declaration.
	Doc *DocBlock

	// Inner holds the inner doc blocks written inside the node's scope, in
	// source order.
	Inner []*DocBlock

	Decl     *Declaration
	Children []*DocNode
}

// Text returns the node's documentation: the outer block followed by every
// inner block, separated by blank lines.
func (n *DocNode) Text() string {
	var parts []string
	if n.Doc != nil {
		parts = append(parts, n.Doc.Text())
	}
	for _, b := range n.Inner {
		parts = append(parts, b.Text())
	}
	return strings.Join(parts, "\n\n")
}

// Documented reports whether the node carries any documentation.
func (n *DocNode) Documented() bool {
	return n.Doc != nil || len(n.Inner) > 0
}

// Walk calls fn for n and every descendant in depth-first source order,
// passing the tree depth (0 for n). Walk stops descending into a node when
// fn returns false.
func (n *DocNode) Walk(fn func(node *DocNode, depth int) bool) {
	n.walk(0, fn)
}

func (n *DocNode) walk(depth int, fn func(*DocNode, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(depth+1, fn)
	}
}
