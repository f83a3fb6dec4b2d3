package dustdoc

import (
	"fmt"
	"strings"
)

// maxHeadingLevel is the deepest Markdown heading. Items nested further
// render as bullets.
const maxHeadingLevel = 6

// RenderMarkdown renders the document tree of the named file as Markdown.
// Identical trees always render to identical bytes.
func RenderMarkdown(root *DocNode, fileName string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Documentation for `%s`\n\n", fileName))
	if root.Documented() {
		b.WriteString(root.Text())
		b.WriteString("\n\n")
	}
	for _, c := range root.Children {
		writeNode(&b, c, 1)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// writeNode writes a node at the given tree depth and then its children.
func writeNode(b *strings.Builder, n *DocNode, depth int) {
	level := depth + 1
	indent := ""
	if level <= maxHeadingLevel {
		b.WriteString(fmt.Sprintf("%s %s\n\n", strings.Repeat("#", level), n.Decl.Title()))
	} else {
		bullet := strings.Repeat("  ", level-maxHeadingLevel-1)
		b.WriteString(fmt.Sprintf("%s- %s\n\n", bullet, n.Decl.Title()))
		indent = bullet + "  "
	}

	if n.Documented() {
		writeIndented(b, n.Text(), indent)
	}
	if n.Decl.Unsafe {
		writeIndented(b, "**(unsafe)**", indent)
	}
	fence := codeFence(n.Decl.Signature)
	writeIndented(b, fence+"dpl\n"+n.Decl.Signature+"\n"+fence, indent)
	if n.Decl.Resource {
		writeIndented(b, "*Resource type*", indent)
	}

	for _, c := range n.Children {
		writeNode(b, c, depth+1)
	}
}

// writeIndented writes text as one paragraph-separated chunk, prefixing
// every non-empty line with indent.
func writeIndented(b *strings.Builder, text, indent string) {
	for _, line := range strings.Split(text, "\n") {
		if line != "" {
			b.WriteString(indent)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// codeFence returns a backtick fence longer than any backtick run in s.
func codeFence(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}
