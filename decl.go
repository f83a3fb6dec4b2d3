package dustdoc

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DeclKind is the kind of a recognized declaration.
type DeclKind int

// DeclKind constants.
const (
	DeclModule DeclKind = iota
	DeclComposite
	DeclField
	DeclCallable
	DeclBinding
	DeclUnsafe
)

func (k DeclKind) String() string {
	switch k {
	case DeclModule:
		return "module"
	case DeclComposite:
		return "composite"
	case DeclField:
		return "field"
	case DeclCallable:
		return "callable"
	case DeclBinding:
		return "binding"
	case DeclUnsafe:
		return "unsafe"
	default:
		return "unknown"
	}
}

// hasBody reports whether declarations of this kind open a scope when
// followed by a brace.
func (k DeclKind) hasBody() bool {
	switch k {
	case DeclModule, DeclComposite, DeclCallable, DeclUnsafe:
		return true
	default:
		return false
	}
}

// Declaration is a recognized code construct.
type Declaration struct {
	Kind      DeclKind
	Keyword   string
	Name      string
	Signature string
	Line      int
	Depth     int
	Children  []*Declaration

	// Unsafe is set when the declaration operates outside the normal
	// safety guarantees, either by its own modifier or because it is
	// nested in an unsafe block.
	Unsafe bool

	// Resource is set for bindings of one of the resource types.
	Resource bool
}

// Declaration keywords, grouped by kind.
var (
	regimeKeywords    = []string{"K", "Q", "Φ"}
	compositeKeywords = []string{"forge", "shape", "type", "trait", "enum"}
	callableKeywords  = []string{"process", "effect"}
	bindingKeywords   = []string{"bind", "const"}
	resourceTypes     = []string{"Thread", "Mem", "Mutex", "File", "Port", "Device", "Ptr"}
)

// scopeKind describes what may be declared inside an open scope.
type scopeKind int

const (
	scopeFile scopeKind = iota
	scopeModule
	scopeComposite
	scopeEnum
	scopeTrait
	scopeCallable
	scopeBlock
)

func scopeOf(d *Declaration) scopeKind {
	switch d.Kind {
	case DeclModule, DeclUnsafe:
		return scopeModule
	case DeclComposite:
		switch d.Keyword {
		case "enum":
			return scopeEnum
		case "trait":
			return scopeTrait
		}
		return scopeComposite
	case DeclCallable:
		return scopeCallable
	default:
		return scopeBlock
	}
}

// recognize matches the start of a code line against the declaration
// grammar allowed in scope. It returns nil for lines that do not start a
// declaration.
func recognize(code string, scope scopeKind) *Declaration {
	s := strings.TrimSpace(code)
	if s == "" {
		return nil
	}

	switch scope {
	case scopeFile, scopeModule:
		return recognizeItem(s, true)
	case scopeComposite:
		if d := recognizeItem(s, false); d != nil {
			return d
		}
		return recognizeField(s)
	case scopeTrait:
		return recognizeItem(s, false)
	case scopeEnum:
		if d := recognizeItem(s, false); d != nil {
			return d
		}
		return recognizeVariant(s)
	default:
		return nil
	}
}

// recognizeItem matches keyword-introduced declarations. Modules, regime
// blocks and unsafe blocks are only allowed at module level.
func recognizeItem(s string, moduleLevel bool) *Declaration {
	word, rest := leadingIdent(s)
	unsafe := false
	if word == "unsafe" {
		if moduleLevel && strings.HasPrefix(strings.TrimSpace(rest), "{") {
			return &Declaration{Kind: DeclUnsafe, Keyword: "unsafe", Name: "unsafe", Unsafe: true}
		}
		unsafe = true
		word, rest = leadingIdent(rest)
	}

	var d *Declaration
	switch {
	case word == "module" && moduleLevel:
		d = &Declaration{Kind: DeclModule, Keyword: word, Name: identAt(rest)}
	case contains(regimeKeywords, word) && moduleLevel:
		d = regime(word, rest)
		if d == nil {
			return nil
		}
	case contains(compositeKeywords, word):
		d = &Declaration{Kind: DeclComposite, Keyword: word, Name: identAt(rest)}
	case contains(callableKeywords, word):
		d = &Declaration{Kind: DeclCallable, Keyword: word, Name: identAt(rest)}
	case contains(bindingKeywords, word):
		d = &Declaration{Kind: DeclBinding, Keyword: word, Name: identAt(rest)}
	case contains(resourceTypes, word):
		d = &Declaration{Kind: DeclBinding, Keyword: word, Name: identAt(skipGenerics(rest)), Resource: true}
	default:
		return nil
	}
	if d.Name == "" {
		return nil
	}
	d.Unsafe = unsafe
	return d
}

// regime matches a regime block header: the regime letter, an optional
// name, then the body brace or end of line. Anything else, such as a
// qualified call, is a statement.
func regime(word, rest string) *Declaration {
	name := identAt(rest)
	after := strings.TrimSpace(rest)[len(name):]
	after = strings.TrimSpace(after)
	if after != "" && !strings.HasPrefix(after, "{") {
		return nil
	}
	if name == "" {
		name = word
	}
	return &Declaration{Kind: DeclModule, Keyword: word, Name: name}
}

// recognizeField matches "name: Type" inside a composite body.
func recognizeField(s string) *Declaration {
	name := identAt(s)
	if name == "" {
		return nil
	}
	rest := strings.TrimLeft(s[len(name):], " \t")
	if !strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "::") {
		return nil
	}
	return &Declaration{Kind: DeclField, Keyword: "field", Name: name}
}

// recognizeVariant matches an enum variant: a bare name, optionally with a
// payload or a discriminant.
func recognizeVariant(s string) *Declaration {
	name := identAt(s)
	if name == "" {
		return nil
	}
	rest := strings.TrimLeft(s[len(name):], " \t")
	if rest != "" && !strings.ContainsRune("(,={}", rune(rest[0])) {
		return nil
	}
	return &Declaration{Kind: DeclField, Keyword: "variant", Name: name}
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

// leadingIdent splits s after its leading identifier.
func leadingIdent(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	word := identAt(s)
	return word, s[len(word):]
}

// identAt returns the identifier at the start of s, after leading space.
func identAt(s string) string {
	s = strings.TrimLeft(s, " \t")
	end := 0
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		if !(r == '_' || unicode.IsLetter(r) || (end > 0 && unicode.IsDigit(r))) {
			break
		}
		end += size
	}
	return s[:end]
}

// skipGenerics drops a leading generic argument list such as "<T>" left
// over after a type name.
func skipGenerics(s string) string {
	s = strings.TrimLeft(s, " \t")
	if !strings.HasPrefix(s, "<") {
		return s
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return s[i+1:]
			}
		}
	}
	return ""
}

// Title is the heading text of the declaration, such as "forge `Point`".
func (d *Declaration) Title() string {
	switch {
	case d.Kind == DeclUnsafe:
		return "unsafe block"
	case d.Kind == DeclModule && d.Keyword == d.Name:
		return fmt.Sprintf("regime `%s`", d.Name)
	default:
		return fmt.Sprintf("%s `%s`", d.Keyword, d.Name)
	}
}
