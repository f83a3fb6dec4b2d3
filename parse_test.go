package dustdoc_test

import (
	"testing"

	"github.com/fwojciec/dustdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *dustdoc.DocNode {
	t.Helper()
	root, err := dustdoc.Parse([]byte(src))
	require.NoError(t, err)
	return root
}

func names(nodes []*dustdoc.DocNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Decl.Name
	}
	return out
}

func TestParse_Scenarios(t *testing.T) {
	t.Parallel()

	t.Run("documents a shape and its field", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "/// Represents a user.\nshape User {\n    /// The user's name.\n    name: String,\n}")

		require.Len(t, root.Children, 1)
		user := root.Children[0]
		assert.Equal(t, dustdoc.DeclComposite, user.Decl.Kind)
		assert.Equal(t, "User", user.Decl.Name)
		assert.Equal(t, "Represents a user.", user.Text())

		require.Len(t, user.Children, 1)
		name := user.Children[0]
		assert.Equal(t, dustdoc.DeclField, name.Decl.Kind)
		assert.Equal(t, "name: String", name.Decl.Signature)
		assert.Equal(t, "The user's name.", name.Text())
		assert.Equal(t, 1, name.Decl.Depth)
	})

	t.Run("attaches inner docs to the root", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "//! Module summary.\n\nprocess foo() {}")

		assert.Equal(t, "Module summary.", root.Text())
		require.Len(t, root.Children, 1)
		foo := root.Children[0]
		assert.Equal(t, "foo", foo.Decl.Name)
		assert.Empty(t, foo.Text())
		assert.False(t, foo.Documented())
	})

	t.Run("a blank line detaches an outer doc", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "/// Orphaned.\n\nforge Point {}\n")

		require.Len(t, root.Children, 1)
		assert.Empty(t, root.Children[0].Text())
		assert.Empty(t, root.Text())
	})

	t.Run("marks unsafe declarations", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "unsafe process poke(addr: Ptr) {}\n")

		require.Len(t, root.Children, 1)
		assert.True(t, root.Children[0].Decl.Unsafe)
		assert.Equal(t, "unsafe process poke(addr: Ptr)", root.Children[0].Decl.Signature)
	})
}

func TestParse_Attachment(t *testing.T) {
	t.Parallel()

	t.Run("plain comments do not detach an outer doc", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "/// Documented.\n// implementation note\nprocess run() {}\n")

		assert.Equal(t, "Documented.", root.Children[0].Text())
	})

	t.Run("a code line detaches an outer doc", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "process run() {\n    /// Not for the statement.\n    step();\n}\nprocess next() {}\n")

		require.Len(t, root.Children, 2)
		assert.Empty(t, root.Children[1].Text())
	})

	t.Run("the nearest outer doc wins", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "/// Far.\n/** Near. */\nshape A {}\n")

		assert.Equal(t, "Near.", root.Children[0].Text())
	})

	t.Run("trailing docs are dropped", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "process run() {}\n/// Nothing follows.\n")

		require.Len(t, root.Children, 1)
		assert.Empty(t, root.Text())
		assert.Empty(t, root.Children[0].Text())
	})

	t.Run("inner docs go to the innermost open scope", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "module net {\n    //! Networking.\n    process dial() {}\n}\n")

		require.Len(t, root.Children, 1)
		net := root.Children[0]
		assert.Equal(t, "Networking.", net.Text())
		assert.Empty(t, root.Text())
		require.Len(t, net.Children, 1)
		assert.Empty(t, net.Children[0].Text())
	})

	t.Run("inner docs never attach to the next sibling", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "//! File doc.\nprocess run() {}\n")

		assert.Equal(t, "File doc.", root.Text())
		assert.Empty(t, root.Children[0].Text())
	})

	t.Run("outer and inner docs are combined", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "/// Outer.\nmodule io {\n    //! Inner one.\n\n    //! Inner two.\n}\n")

		assert.Equal(t, "Outer.\n\nInner one.\n\nInner two.", root.Children[0].Text())
	})

	t.Run("an inner doc between an outer doc and its declaration keeps the attachment", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "/// Outer.\n//! Inner.\nshape A {}\n")

		assert.Equal(t, "Inner.", root.Text())
		assert.Equal(t, "Outer.", root.Children[0].Text())
	})
}

func TestParse_Declarations(t *testing.T) {
	t.Parallel()

	t.Run("recognizes every top-level declaration form", func(t *testing.T) {
		t.Parallel()

		src := `module core;
forge Engine {}
shape Point {}
type Meters = f64;
trait Drawable {}
enum Color {}
process run() {}
effect log(msg: String);
bind answer = 42;
const LIMIT: u32 = 10;
Thread<Worker> worker = spawn(work);
Mem buf = alloc(64);
K {}
`
		root := parse(t, src)

		assert.Equal(t, []string{
			"core", "Engine", "Point", "Meters", "Drawable", "Color",
			"run", "log", "answer", "LIMIT", "worker", "buf", "K",
		}, names(root.Children))

		kinds := make([]dustdoc.DeclKind, len(root.Children))
		for i, n := range root.Children {
			kinds[i] = n.Decl.Kind
		}
		assert.Equal(t, []dustdoc.DeclKind{
			dustdoc.DeclModule, dustdoc.DeclComposite, dustdoc.DeclComposite, dustdoc.DeclComposite,
			dustdoc.DeclComposite, dustdoc.DeclComposite, dustdoc.DeclCallable, dustdoc.DeclCallable,
			dustdoc.DeclBinding, dustdoc.DeclBinding, dustdoc.DeclBinding, dustdoc.DeclBinding,
			dustdoc.DeclModule,
		}, kinds)
		assert.True(t, root.Children[10].Decl.Resource)
		assert.True(t, root.Children[11].Decl.Resource)
		assert.False(t, root.Children[8].Decl.Resource)
	})

	t.Run("captures signatures up to the body or terminator", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "process add(a: i32, b: i32) -> i32 {\n    a + b\n}\ntype Meters = f64;\nbind origin = Point { x: 0, y: 0 };\n")

		require.Len(t, root.Children, 3)
		assert.Equal(t, "process add(a: i32, b: i32) -> i32", root.Children[0].Decl.Signature)
		assert.Equal(t, "type Meters = f64", root.Children[1].Decl.Signature)
		assert.Equal(t, "bind origin = Point { x: 0, y: 0 }", root.Children[2].Decl.Signature)
	})

	t.Run("captures multi-line parameter lists dedented", func(t *testing.T) {
		t.Parallel()

		src := "module m {\n    process connect(\n        host: String, // where\n        port: u16,\n    ) -> Port {\n        open(host, port)\n    }\n}\n"

		root := parse(t, src)

		connect := root.Children[0].Children[0]
		assert.Equal(t, "process connect(\n    host: String,\n    port: u16,\n) -> Port", connect.Decl.Signature)
		assert.Equal(t, 2, connect.Decl.Line)
	})

	t.Run("opens a body brace on the next line", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "shape Pair\n{\n    left: i32,\n    right: i32,\n}\n")

		require.Len(t, root.Children, 1)
		pair := root.Children[0]
		assert.Equal(t, "shape Pair", pair.Decl.Signature)
		assert.Equal(t, []string{"left", "right"}, names(pair.Children))
	})

	t.Run("ignores statements inside callable bodies", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "process run() {\n    bind x = 1;\n    shape Local {}\n}\n")

		require.Len(t, root.Children, 1)
		assert.Empty(t, root.Children[0].Children)
	})

	t.Run("ignores regime operations", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "K::alloc(64);\nK {\n    process step() {}\n}\n")

		require.Len(t, root.Children, 1)
		assert.Equal(t, "K", root.Children[0].Decl.Name)
		assert.Equal(t, []string{"step"}, names(root.Children[0].Children))
	})

	t.Run("recognizes enum variants", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "enum Shape {\n    /// A point.\n    Point,\n    Circle(f64),\n    Square = 4,\n    Last\n}\n")

		shape := root.Children[0]
		assert.Equal(t, []string{"Point", "Circle", "Square", "Last"}, names(shape.Children))
		assert.Equal(t, "variant", shape.Children[0].Decl.Keyword)
		assert.Equal(t, "A point.", shape.Children[0].Text())
		assert.Equal(t, "Circle(f64)", shape.Children[1].Decl.Signature)
		assert.Equal(t, "Square = 4", shape.Children[2].Decl.Signature)
		assert.Equal(t, "Last", shape.Children[3].Decl.Signature)
	})

	t.Run("recognizes nested composites and callables in a composite body", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "forge Engine {\n    speed: u32,\n    shape Gear {\n        teeth: u8,\n    }\n    process start(self) {}\n}\n")

		engine := root.Children[0]
		assert.Equal(t, []string{"speed", "Gear", "start"}, names(engine.Children))
		assert.Equal(t, []string{"teeth"}, names(engine.Children[1].Children))
		assert.Equal(t, 2, engine.Children[1].Children[0].Decl.Depth)
		assert.Equal(t, []*dustdoc.Declaration{
			engine.Children[0].Decl, engine.Children[1].Decl, engine.Children[2].Decl,
		}, engine.Decl.Children)
	})

	t.Run("fields are only recognized directly inside composites", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "label: String\nmodule m {\n    value: u8\n}\n")

		require.Len(t, root.Children, 1)
		assert.Empty(t, root.Children[0].Children)
	})

	t.Run("declarations in unsafe blocks inherit the annotation", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "unsafe {\n    /// Raw access.\n    process peek(p: Ptr) -> u8 {}\n}\nprocess safe() {}\n")

		require.Len(t, root.Children, 2)
		block := root.Children[0]
		assert.Equal(t, dustdoc.DeclUnsafe, block.Decl.Kind)
		assert.True(t, block.Decl.Unsafe)
		require.Len(t, block.Children, 1)
		assert.True(t, block.Children[0].Decl.Unsafe)
		assert.Equal(t, "Raw access.", block.Children[0].Text())
		assert.False(t, root.Children[1].Decl.Unsafe)
	})

	t.Run("delimiters inside strings and comments are ignored", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "bind open = \"{[(\";\nprocess run() { // }\n    say('}');\n}\n/* { */\n")

		assert.Equal(t, []string{"open", "run"}, names(root.Children))
	})
}

func TestParse_GenericSignatures(t *testing.T) {
	t.Parallel()

	t.Run("commas inside generic arguments do not end a field", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "shape Pair {\n    /// Lookup.\n    table: Map<String, Int>,\n    f: fn(i32) -> Map<A, Vec<B>>,\n    next: u8,\n}\n")

		pair := root.Children[0]
		assert.Equal(t, []string{"table", "f", "next"}, names(pair.Children))
		assert.Equal(t, "table: Map<String, Int>", pair.Children[0].Decl.Signature)
		assert.Equal(t, "Lookup.", pair.Children[0].Text())
		assert.Equal(t, "f: fn(i32) -> Map<A, Vec<B>>", pair.Children[1].Decl.Signature)
		assert.Equal(t, "next: u8", pair.Children[2].Decl.Signature)

		md := dustdoc.RenderMarkdown(root, "pair.dust")
		assert.Contains(t, md, "```dpl\ntable: Map<String, Int>\n```")
	})

	t.Run("commas inside generic arguments do not end a variant", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "enum Slot {\n    Empty,\n    Full = Slot<A, B>::TAG,\n    Last\n}\n")

		slot := root.Children[0]
		assert.Equal(t, []string{"Empty", "Full", "Last"}, names(slot.Children))
		assert.Equal(t, "Full = Slot<A, B>::TAG", slot.Children[1].Decl.Signature)
	})

	t.Run("bindings keep their generic types", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "bind table = Map<String, Int>::new();\nMutex<Map<K, V>> guard = lock();\n")

		assert.Equal(t, []string{"table", "guard"}, names(root.Children))
		assert.Equal(t, "bind table = Map<String, Int>::new()", root.Children[0].Decl.Signature)
		assert.Equal(t, "Mutex<Map<K, V>> guard = lock()", root.Children[1].Decl.Signature)
		assert.True(t, root.Children[1].Decl.Resource)
	})
}

func TestParse_CodeAfterBlockComment(t *testing.T) {
	t.Parallel()

	t.Run("a plain block comment before code keeps its delimiters", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "/* note */ process f() {\n}\n")

		require.Len(t, root.Children, 1)
		assert.Equal(t, "process f()", root.Children[0].Decl.Signature)
		assert.Empty(t, root.Children[0].Text())
	})

	t.Run("a block doc comment attaches to the declaration on its line", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "/** A point. */ shape Point {\n    x: Int,\n}\n")

		require.Len(t, root.Children, 1)
		point := root.Children[0]
		assert.Equal(t, "Point", point.Decl.Name)
		assert.Equal(t, "A point.", point.Text())
		assert.Equal(t, []string{"x"}, names(point.Children))
	})

	t.Run("an inner block doc goes to the scope and the code still opens", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "/*! File. */ process run() {\n}\n")

		assert.Equal(t, "File.", root.Text())
		require.Len(t, root.Children, 1)
		assert.Empty(t, root.Children[0].Text())
	})

	t.Run("code after a multi-line comment closer is parsed", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "/* long\n   note */ shape A {\n}\n")

		assert.Equal(t, []string{"A"}, names(root.Children))
	})
}

func TestParse_SameLineMembers(t *testing.T) {
	t.Parallel()

	t.Run("records fields written inside a one-line body", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "shape A { x: Int }\nshape P { x: Int, y: Map<K, V> }\n")

		require.Len(t, root.Children, 2)
		assert.Equal(t, []string{"x"}, names(root.Children[0].Children))
		assert.Equal(t, "x: Int", root.Children[0].Children[0].Decl.Signature)
		p := root.Children[1]
		assert.Equal(t, []string{"x", "y"}, names(p.Children))
		assert.Equal(t, "y: Map<K, V>", p.Children[1].Decl.Signature)
	})

	t.Run("records variants written inside a one-line body", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "enum Color { Red, Green }\n")

		assert.Equal(t, []string{"Red", "Green"}, names(root.Children[0].Children))
	})

	t.Run("records declarations that follow on the same line", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "module core; process a() {} process b() {}\n")

		assert.Equal(t, []string{"core", "a", "b"}, names(root.Children))
		assert.Equal(t, "process b()", root.Children[2].Decl.Signature)
	})

	t.Run("ignores statements in a one-line callable body", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "process run() { bind x = 1; shape Local {} }\n")

		require.Len(t, root.Children, 1)
		assert.Empty(t, root.Children[0].Children)
	})
}

func TestParse_Order(t *testing.T) {
	t.Parallel()

	root := parse(t, "process c() {}\nprocess a() {}\nprocess b() {}\nforge Z {\n    y: u8,\n    x: u8,\n}\n")

	assert.Equal(t, []string{"c", "a", "b", "Z"}, names(root.Children))
	assert.Equal(t, []string{"y", "x"}, names(root.Children[3].Children))
}

func TestParse_SignaturesAreCode(t *testing.T) {
	t.Parallel()

	src := `/// Doc.
process run(
    a: i32, /// not a doc
    // plain
    b: i32,
) -> i32 /* inline */ {
}
shape S {
    /// field doc
    f: u8, // trailing
}
`
	root := parse(t, src)

	root.Walk(func(n *dustdoc.DocNode, _ int) bool {
		if n.Decl == nil {
			return true
		}
		for _, line := range dustdoc.Classify(n.Decl.Signature) {
			assert.Equal(t, dustdoc.LineCode, line.Kind, "signature %q", n.Decl.Signature)
		}
		return true
	})
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		code string
		line int
	}{
		{
			name: "unclosed brace names its line",
			src:  "shape A {\n    x: u8,\n",
			code: dustdoc.EMALFORMED,
			line: 1,
		},
		{
			name: "unexpected closer",
			src:  "process run() {}\n}\n",
			code: dustdoc.EMALFORMED,
			line: 2,
		},
		{
			name: "mismatched closer",
			src:  "process run() {\n    call(1];\n}\n",
			code: dustdoc.EMALFORMED,
			line: 2,
		},
		{
			name: "unclosed parameter list",
			src:  "process run(\n    a: i32,\n",
			code: dustdoc.EMALFORMED,
			line: 1,
		},
		{
			name: "invalid UTF-8 names the first bad line",
			src:  "process run() {}\n/// caf\xe9\n",
			code: dustdoc.EENCODING,
			line: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, err := dustdoc.Parse([]byte(tt.src))

			require.Error(t, err)
			assert.Nil(t, root)
			assert.Equal(t, tt.code, dustdoc.ErrorCode(err))
			assert.Equal(t, tt.line, dustdoc.ErrorLine(err))
		})
	}
}
