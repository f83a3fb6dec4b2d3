package dustdoc

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf8"
)

// LineKind classifies a physical source line.
type LineKind int

// LineKind constants.
const (
	LineCode LineKind = iota
	LineBlank
	LinePlainComment
	LineOuterDoc
	LineInnerDoc
)

func (k LineKind) String() string {
	switch k {
	case LineCode:
		return "code"
	case LineBlank:
		return "blank"
	case LinePlainComment:
		return "comment"
	case LineOuterDoc:
		return "outer-doc"
	case LineInnerDoc:
		return "inner-doc"
	default:
		return "unknown"
	}
}

// IsDoc reports whether lines of this kind carry documentation.
func (k LineKind) IsDoc() bool {
	return k == LineOuterDoc || k == LineInnerDoc
}

// CommentStyle distinguishes line comments from block comments.
type CommentStyle int

// CommentStyle constants.
const (
	StyleNone CommentStyle = iota
	StyleLine
	StyleBlock
)

// SourceLine is one classified physical line of a source file.
type SourceLine struct {
	Number int
	Text   string
	Kind   LineKind
	Style  CommentStyle

	// BlockStart and BlockEnd mark the first and last line of a block
	// comment. A single-line block comment sets both.
	BlockStart bool
	BlockEnd   bool

	// Code is the text of a Code line with comments removed. A block
	// comment line whose closer is followed by code carries that code
	// here too.
	Code string
}

// Classify returns every line of src, classified.
func Classify(src string) []SourceLine {
	return slices.Collect(Lines(src))
}

// Lines returns a lazy sequence of classified lines. A trailing line
// terminator does not produce an extra empty line.
func Lines(src string) iter.Seq[SourceLine] {
	return func(yield func(SourceLine) bool) {
		var lx lexer
		n := 0
		for len(src) > 0 {
			n++
			var text string
			if i := strings.IndexByte(src, '\n'); i >= 0 {
				text, src = src[:i], src[i+1:]
			} else {
				text, src = src, ""
			}
			text = strings.TrimSuffix(text, "\r")
			if !yield(lx.classify(n, text)) {
				return
			}
		}
	}
}

// lexer carries block comment state between lines.
type lexer struct {
	inBlock   bool
	blockKind LineKind
}

func (lx *lexer) classify(n int, text string) SourceLine {
	line := SourceLine{Number: n, Text: text}
	trimmed := strings.TrimLeft(text, " \t")

	if lx.inBlock {
		line.Kind = lx.blockKind
		line.Style = StyleBlock
		if i := strings.Index(trimmed, "*/"); i >= 0 {
			lx.inBlock = false
			line.BlockEnd = true
			lx.trailing(&line, trimmed[i+2:])
		}
		return line
	}

	switch {
	case strings.HasPrefix(trimmed, "/*"):
		line.Kind = blockCommentKind(trimmed)
		line.Style = StyleBlock
		line.BlockStart = true
		if i := strings.Index(trimmed[2:], "*/"); i >= 0 {
			line.BlockEnd = true
			lx.trailing(&line, trimmed[2+i+2:])
		} else {
			lx.inBlock = true
			lx.blockKind = line.Kind
		}
	case isOuterLineDoc(trimmed):
		line.Kind = LineOuterDoc
		line.Style = StyleLine
	case strings.HasPrefix(trimmed, "//!"):
		line.Kind = LineInnerDoc
		line.Style = StyleLine
	case strings.HasPrefix(trimmed, "//"):
		line.Kind = LinePlainComment
		line.Style = StyleLine
	case trimmed == "":
		line.Kind = LineBlank
	default:
		line.Kind = LineCode
		code, open := stripComments(text)
		line.Code = code
		if open {
			lx.inBlock = true
			lx.blockKind = LinePlainComment
		}
	}
	return line
}

// trailing records the code that follows a block comment closer on the
// same line. The line keeps its comment kind.
func (lx *lexer) trailing(line *SourceLine, rest string) {
	code, open := stripComments(rest)
	if strings.TrimSpace(code) != "" {
		line.Code = code
	}
	if open {
		lx.inBlock = true
		lx.blockKind = LinePlainComment
	}
}

// blockCommentKind classifies a line starting with "/*". The empty comment
// "/**/" and openers with extra stars are plain comments.
func blockCommentKind(s string) LineKind {
	switch {
	case strings.HasPrefix(s, "/*!"):
		return LineInnerDoc
	case strings.HasPrefix(s, "/**") && !strings.HasPrefix(s, "/***") && !strings.HasPrefix(s, "/**/"):
		return LineOuterDoc
	default:
		return LinePlainComment
	}
}

// isOuterLineDoc reports whether s starts with exactly three slashes.
func isOuterLineDoc(s string) bool {
	return strings.HasPrefix(s, "///") && !strings.HasPrefix(s, "////")
}

// stripComments removes line comments and inline block comments from a
// code line, leaving string literals untouched. It reports whether a block
// comment is still open at the end of the line.
func stripComments(s string) (string, bool) {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '"':
			quote = c
			b.WriteByte(c)
		case c == '\'' && isCharLiteral(s[i:]):
			quote = c
			b.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			return strings.TrimRight(b.String(), " \t"), false
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return strings.TrimRight(b.String(), " \t"), true
			}
			i += 2 + end + 1
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return strings.TrimRight(b.String(), " \t"), false
}

// isCharLiteral reports whether s starts with a character literal such as
// 'a' or '\n', as opposed to a lone apostrophe.
func isCharLiteral(s string) bool {
	if len(s) >= 4 && s[1] == '\\' {
		return s[3] == '\''
	}
	_, size := utf8.DecodeRuneInString(s[1:])
	return size > 0 && len(s) > 1+size && s[1+size] == '\''
}
