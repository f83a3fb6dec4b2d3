package dustdoc

import (
	"bytes"
	"iter"
	"strings"
	"unicode/utf8"
)

// Parse builds the document tree of one source file. Invalid UTF-8 and
// unbalanced delimiters are fatal; no partial tree is returned.
func Parse(src []byte) (*DocNode, error) {
	if off := invalidUTF8(src); off >= 0 {
		line := 1 + bytes.Count(src[:off], []byte("\n"))
		return nil, LineErrorf(EENCODING, line, "source is not valid UTF-8")
	}
	return Build(Aggregate(Lines(string(src))))
}

// invalidUTF8 returns the offset of the first invalid byte in src, or -1.
func invalidUTF8(src []byte) int {
	if utf8.Valid(src) {
		return -1
	}
	for off := 0; off < len(src); {
		r, size := utf8.DecodeRune(src[off:])
		if r == utf8.RuneError && size == 1 {
			return off
		}
		off += size
	}
	return -1
}

// Build assembles the document tree from an aggregated segment stream in a
// single pass.
func Build(segments iter.Seq[Segment]) (*DocNode, error) {
	b := newBuilder()
	for seg := range segments {
		if err := b.add(seg); err != nil {
			return nil, err
		}
	}
	return b.finish()
}

// frame is an open declaration scope.
type frame struct {
	node   *DocNode
	scope  scopeKind
	unsafe bool
}

// delim is an open delimiter. Frame delimiters opened a declaration body.
type delim struct {
	char  byte
	line  int
	frame bool
}

// capture accumulates the signature of the declaration being read. Depth
// counts open delimiters; angle counts open generic argument lists, which
// only keep a comma from ending a field.
type capture struct {
	node   *DocNode
	indent int
	lines  []string
	depth  int
	angle  int
}

type builder struct {
	root    *DocNode
	frames  []frame
	delims  []delim
	pending *DocBlock
	cur     *capture

	// body is a declaration whose header ended at end of line; a following
	// line starting with "{" opens its body.
	body *DocNode
}

func newBuilder() *builder {
	root := &DocNode{}
	return &builder{
		root:   root,
		frames: []frame{{node: root, scope: scopeFile}},
	}
}

func (b *builder) top() frame {
	return b.frames[len(b.frames)-1]
}

func (b *builder) add(seg Segment) error {
	if blk := seg.Block; blk != nil {
		switch blk.Kind {
		case LineOuterDoc:
			b.pending = blk
		case LineInnerDoc:
			n := b.top().node
			n.Inner = append(n.Inner, blk)
		}
		return nil
	}

	switch {
	case seg.Line.Kind == LineBlank:
		b.pending = nil
	case seg.Line.Kind == LineCode, seg.Line.Code != "":
		return b.code(seg.Line)
	}
	return nil
}

// atDeclPosition reports whether the innermost open delimiter is a
// declaration body, so that a new line may start a declaration.
func (b *builder) atDeclPosition() bool {
	if len(b.delims) == 0 {
		return true
	}
	return b.delims[len(b.delims)-1].frame
}

func (b *builder) code(line SourceLine) error {
	text := line.Code
	trimmed := strings.TrimLeft(text, " \t")
	start := len(text) - len(trimmed)
	from := 0

	var bodyFor *DocNode
	if b.cur == nil {
		switch {
		case b.body != nil && strings.HasPrefix(trimmed, "{"):
			bodyFor = b.body
		case b.atDeclPosition():
			if d := recognize(trimmed, b.top().scope); d != nil {
				b.open(d, line.Number, start)
				from = start
			}
		}
	}
	b.body = nil
	b.pending = nil

	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '"':
			quote = c
		case '\'':
			if isCharLiteral(text[i:]) {
				quote = c
			}
		case '{', '(', '[':
			if cur := b.cur; cur != nil {
				if c == '{' && cur.depth == 0 && cur.node.Decl.Kind.hasBody() {
					bodyFor = cur.node
					b.endCapture(text[from:i])
				} else {
					cur.depth++
				}
			}
			d := delim{char: c, line: line.Number, frame: c == '{' && bodyFor != nil}
			b.delims = append(b.delims, d)
			if d.frame {
				b.push(bodyFor)
				bodyFor = nil
				from = b.startAfter(text, i+1, line.Number, from)
			}
		case '}', ')', ']':
			if cur := b.cur; cur != nil {
				if cur.depth == 0 {
					b.endCapture(text[from:i])
				} else {
					cur.depth--
				}
			}
			if err := b.close(c, line.Number); err != nil {
				return err
			}
			if c == '}' {
				from = b.startAfter(text, i+1, line.Number, from)
			}
		case '<':
			if cur := b.cur; cur != nil && cur.depth == 0 {
				cur.angle++
			}
		case '>':
			if cur := b.cur; cur != nil && cur.depth == 0 && cur.angle > 0 && (i == 0 || text[i-1] != '-') {
				cur.angle--
			}
		case ';':
			if b.cur != nil && b.cur.depth == 0 {
				b.endCapture(text[from:i])
				from = b.startAfter(text, i+1, line.Number, from)
			}
		case ',':
			if cur := b.cur; cur != nil && cur.depth == 0 && cur.angle == 0 && cur.node.Decl.Kind == DeclField {
				b.endCapture(text[from:i])
				from = b.startAfter(text, i+1, line.Number, from)
			}
		}
	}

	if cur := b.cur; cur != nil {
		if cur.depth > 0 {
			cur.lines = append(cur.lines, text[from:])
			return nil
		}
		b.endCapture(text[from:])
		if cur.node.Decl.Kind.hasBody() {
			b.body = cur.node
		}
	}
	return nil
}

// open starts a declaration: it attaches the pending outer doc block,
// appends the node to the innermost scope and begins capturing its
// signature.
func (b *builder) open(d *Declaration, line, indent int) {
	parent := b.top()
	d.Line = line
	d.Depth = len(b.frames) - 1
	d.Unsafe = d.Unsafe || parent.unsafe

	n := &DocNode{Doc: b.pending, Decl: d}
	b.pending = nil
	parent.node.Children = append(parent.node.Children, n)
	if parent.node.Decl != nil {
		parent.node.Decl.Children = append(parent.node.Decl.Children, d)
	}
	b.cur = &capture{node: n, indent: indent}
}

// startAfter starts a declaration written at text[i:], after a body
// opener, a closing brace or a terminator on the same line. It returns
// where the new signature begins, or from when nothing starts there.
func (b *builder) startAfter(text string, i, number, from int) int {
	if b.cur != nil || !b.atDeclPosition() {
		return from
	}
	rest := text[i:]
	trimmed := strings.TrimLeft(rest, " \t")
	d := recognize(trimmed, b.top().scope)
	if d == nil {
		return from
	}
	start := i + len(rest) - len(trimmed)
	b.open(d, number, start)
	return start
}

func (b *builder) push(n *DocNode) {
	b.frames = append(b.frames, frame{
		node:   n,
		scope:  scopeOf(n.Decl),
		unsafe: n.Decl.Unsafe,
	})
}

func (b *builder) close(c byte, line int) error {
	if len(b.delims) == 0 {
		return LineErrorf(EMALFORMED, line, "unexpected %q with no matching opener", c)
	}
	top := b.delims[len(b.delims)-1]
	if closerOf(top.char) != c {
		return LineErrorf(EMALFORMED, line, "mismatched %q: %q opened on line %d is not closed", c, top.char, top.line)
	}
	b.delims = b.delims[:len(b.delims)-1]
	if top.frame {
		b.frames = b.frames[:len(b.frames)-1]
	}
	return nil
}

// endCapture completes the current signature with the final partial line.
// Continuation lines are dedented to the declaration's first line.
func (b *builder) endCapture(last string) {
	cur := b.cur
	b.cur = nil
	lines := append(cur.lines, last)
	for i := range lines {
		if i > 0 {
			lines[i] = dedent(lines[i], cur.indent)
		}
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	cur.node.Decl.Signature = strings.TrimSpace(strings.Join(lines, "\n"))
}

func (b *builder) finish() (*DocNode, error) {
	if n := len(b.delims); n > 0 {
		top := b.delims[n-1]
		return nil, LineErrorf(EMALFORMED, top.line, "unclosed %q", top.char)
	}
	return b.root, nil
}

func closerOf(c byte) byte {
	switch c {
	case '{':
		return '}'
	case '(':
		return ')'
	case '[':
		return ']'
	}
	return 0
}

// dedent removes up to n leading blanks from s.
func dedent(s string, n int) string {
	i := 0
	for i < n && i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}
