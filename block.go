package dustdoc

import (
	"iter"
	"strings"
)

// DocBlock is a maximal run of documentation lines of one kind, with the
// comment markers stripped.
type DocBlock struct {
	Kind      LineKind
	Style     CommentStyle
	Line      int
	Fragments []string
}

// Text returns the documentation text of the block.
func (b *DocBlock) Text() string {
	if b == nil {
		return ""
	}
	return strings.Join(b.Fragments, "\n")
}

// Segment is one element of the aggregated line stream: either a complete
// doc block or a single line that carries no documentation.
type Segment struct {
	Block *DocBlock
	Line  SourceLine
}

// Aggregate merges consecutive documentation lines into doc blocks. Each
// block is yielded before the line that terminated it. Block comments
// always form a block of their own; a doc comment line that also carries
// code is yielded again after its block.
func Aggregate(lines iter.Seq[SourceLine]) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		var cur *blockBuilder
		flush := func() bool {
			if cur == nil {
				return true
			}
			b := cur.finish()
			cur = nil
			if b == nil {
				return true
			}
			return yield(Segment{Block: b})
		}

		for line := range lines {
			switch {
			case line.Kind.IsDoc() && line.Style == StyleBlock:
				if line.BlockStart {
					if !flush() {
						return
					}
					cur = newBlockBuilder(line)
				}
				if cur == nil {
					cur = newBlockBuilder(line)
				}
				cur.addBlockLine(line)
				if line.BlockEnd && !flush() {
					return
				}
				if line.Code != "" && !yield(Segment{Line: line}) {
					return
				}
			case line.Kind.IsDoc():
				if cur == nil || cur.kind != line.Kind || cur.style != StyleLine {
					if !flush() {
						return
					}
					cur = newBlockBuilder(line)
				}
				cur.addLineDoc(line)
			default:
				if !flush() || !yield(Segment{Line: line}) {
					return
				}
			}
		}
		flush()
	}
}

type blockBuilder struct {
	kind  LineKind
	style CommentStyle
	line  int
	raw   []string
}

func newBlockBuilder(line SourceLine) *blockBuilder {
	return &blockBuilder{kind: line.Kind, style: line.Style, line: line.Number}
}

// addLineDoc strips the three-character marker and exactly one space.
func (b *blockBuilder) addLineDoc(line SourceLine) {
	s := strings.TrimLeft(line.Text, " \t")
	s = s[3:]
	s = strings.TrimPrefix(s, " ")
	b.raw = append(b.raw, s)
}

// addBlockLine keeps the interior of a block comment line, without the
// opener and closer. Decoration is removed in finish.
func (b *blockBuilder) addBlockLine(line SourceLine) {
	s := line.Text
	if line.BlockStart {
		s = strings.TrimLeft(s, " \t")[3:]
		s = strings.TrimLeft(s, " \t")
	}
	if line.BlockEnd {
		if i := strings.Index(s, "*/"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimRight(s, " \t")
	}
	b.raw = append(b.raw, s)
}

func (b *blockBuilder) finish() *DocBlock {
	fragments := b.raw
	if b.style == StyleBlock {
		fragments = undecorate(fragments)
	}

	for len(fragments) > 0 && strings.TrimSpace(fragments[0]) == "" {
		fragments = fragments[1:]
		b.line++
	}
	for len(fragments) > 0 && strings.TrimSpace(fragments[len(fragments)-1]) == "" {
		fragments = fragments[:len(fragments)-1]
	}
	if len(fragments) == 0 {
		return nil
	}

	return &DocBlock{
		Kind:      b.kind,
		Style:     b.style,
		Line:      b.line,
		Fragments: fragments,
	}
}

// undecorate removes the conventional leading " * " from the interior
// lines of a block comment, or their common indentation when the block is
// not decorated. The first fragment follows the opener and is kept as is.
func undecorate(raw []string) []string {
	out := make([]string, len(raw))
	copy(out, raw)
	if len(out) < 2 {
		return out
	}

	rest := out[1:]
	decorated := true
	for _, s := range rest {
		t := strings.TrimLeft(s, " \t")
		if t != "" && !strings.HasPrefix(t, "*") {
			decorated = false
			break
		}
	}

	if decorated {
		for i, s := range rest {
			t := strings.TrimLeft(s, " \t")
			t = strings.TrimPrefix(t, "*")
			rest[i] = strings.TrimPrefix(t, " ")
		}
		return out
	}

	indent := -1
	for _, s := range rest {
		if strings.TrimSpace(s) == "" {
			continue
		}
		n := len(s) - len(strings.TrimLeft(s, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, s := range rest {
		switch {
		case strings.TrimSpace(s) == "":
			rest[i] = ""
		case indent > 0:
			rest[i] = s[indent:]
		}
	}
	return out
}
