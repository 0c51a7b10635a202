package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/shapestone/shape-core/pkg/ast"
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
)

// records flattens a parsed AST into raw column text.
func records(t *testing.T, node ast.SchemaNode) [][]string {
	t.Helper()

	arr, ok := node.(*ast.ArrayDataNode)
	if !ok {
		t.Fatalf("expected *ast.ArrayDataNode, got %T", node)
	}

	out := make([][]string, 0, arr.Len())
	for i, elem := range arr.Elements() {
		rec, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			t.Fatalf("record %d: expected *ast.ArrayDataNode, got %T", i, elem)
		}
		fields := make([]string, 0, rec.Len())
		for j, f := range rec.Elements() {
			lit, ok := f.(*ast.LiteralNode)
			if !ok {
				t.Fatalf("record %d field %d: expected *ast.LiteralNode, got %T", i, j, f)
			}
			s, ok := lit.Value().(string)
			if !ok {
				t.Fatalf("record %d field %d: expected string value, got %T", i, j, lit.Value())
			}
			fields = append(fields, s)
		}
		out = append(out, fields)
	}
	return out
}

func parse(t *testing.T, input string, delim rune) [][]string {
	t.Helper()
	node, err := NewParserWithOptions(input, Options{Delimiter: delim}).Parse()
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", input, err)
	}
	return records(t, node)
}

// TestParse_Empty tests inputs that yield no rows.
// Grammar: File = { LogicalRow }
func TestParse_Empty(t *testing.T) {
	for _, input := range []string{"", " ", "\t", "\r", "\n", "\r\n", " \n\t\n"} {
		got := parse(t, input, ',')
		if len(got) != 0 {
			t.Errorf("Parse(%q) = %q, want no records", input, got)
		}
	}
}

// TestParse_Lines tests rows that fit on one physical line.
// Grammar: Line = { Text | Delimiter | DQuote } LF
func TestParse_Lines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{name: "single field", input: "hello", want: [][]string{{"hello"}}},
		{name: "trailing line feed", input: "hello\n", want: [][]string{{"hello"}}},
		{name: "three fields", input: "a,b,c", want: [][]string{{"a", "b", "c"}}},
		{name: "two records", input: "a,b\nc,d", want: [][]string{{"a", "b"}, {"c", "d"}}},
		{name: "empty fields", input: ",,", want: [][]string{{"", "", ""}}},
		{name: "interior empty line", input: "a\n\nb", want: [][]string{{"a"}, {""}, {"b"}}},
		{name: "leading empty line", input: "\na", want: [][]string{{""}, {"a"}}},
		{name: "crlf", input: "a,b\r\nc\r\n", want: [][]string{{"a", "b"}, {"c"}}},
		{name: "lone carriage returns", input: "a\r,\rb", want: [][]string{{"a", "b"}}},
		{name: "quotes kept", input: `"a",b`, want: [][]string{{`"a"`, "b"}}},
		{name: "quoted delimiter", input: `a"B,C"d`, want: [][]string{{`a"B,C"d`}}},
		{name: "several quoted delimiters", input: `"a,b,c",d`, want: [][]string{{`"a,b,c"`, "d"}}},
		{name: "doubled quote", input: `""X`, want: [][]string{{`""X`}}},
		{name: "doubled quote in quote", input: `"a"",""b",c`, want: [][]string{{`"a"",""b"`, "c"}}},
		{name: "whitespace kept", input: " a , b ", want: [][]string{{" a ", " b "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, tt.input, ',')
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestParse_Folding tests logical rows that span physical lines.
// Grammar: LogicalRow = OpenLine { Line } CloseLine
func TestParse_Folding(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "one break",
			input: "abc,def\"ABC\n-DEF\"",
			want:  [][]string{{"abc", "def\"ABC\r-DEF\""}},
		},
		{
			name:  "intermediate lines",
			input: "\"a\nb\nc\"",
			want:  [][]string{{"\"a\rb\rc\""}},
		},
		{
			name:  "even line does not close",
			input: "\"a\n\"\"b\nc\"",
			want:  [][]string{{"\"a\r\"\"b\rc\""}},
		},
		{
			name:  "crlf break",
			input: "\"a\r\nb\"\r\nc",
			want:  [][]string{{"\"a\rb\""}, {"c"}},
		},
		{
			name:  "empty intermediate line",
			input: "\"a\n\nb\"",
			want:  [][]string{{"\"a\r\rb\""}},
		},
		{
			name:  "delimiter across lines",
			input: "\"a,\nb\",c",
			want:  [][]string{{"\"a,\rb\"", "c"}},
		},
		{
			name:  "closed at end of input",
			input: "a,\"b\nc",
			want:  [][]string{{"a", "\"b\rc"}},
		},
		{
			name:  "closing line carriage returns stripped",
			input: "\"a\nb\r\"\r",
			want:  [][]string{{"\"a\rb\""}},
		},
		{
			name:  "open quote on last line",
			input: "a,\"b\r",
			want:  [][]string{{"a", "\"b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, tt.input, ',')
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestParse_Delimiters tests non-comma delimiters.
func TestParse_Delimiters(t *testing.T) {
	tests := []struct {
		name  string
		delim rune
		input string
		want  [][]string
	}{
		{name: "hash", delim: '#', input: "a#b,c", want: [][]string{{"a", "b,c"}}},
		{name: "tab", delim: '\t', input: "a\tb", want: [][]string{{"a", "b"}}},
		{name: "multi-byte", delim: '§', input: "é§\"ü§\"", want: [][]string{{"é", "\"ü§\""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, tt.input, tt.delim)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestParse_Positions tests that records carry the position of their first line.
func TestParse_Positions(t *testing.T) {
	node, err := NewParser("a\n\"b\nc\"\nd").Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	arr := node.(*ast.ArrayDataNode)
	if arr.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", arr.Len())
	}

	// The folded record spans two physical lines.
	elems := arr.Elements()
	first := elems[0].Position().Line
	wantOffsets := []int{0, 1, 3}
	for i, elem := range elems {
		if got := elem.Position().Line - first; got != wantOffsets[i] {
			t.Errorf("record %d: line offset = %d, want %d", i, got, wantOffsets[i])
		}
	}
}

// TestParseFromStream tests parsing from an io.Reader backed stream.
func TestParseFromStream(t *testing.T) {
	stream := shapetokenizer.NewStreamFromReader(strings.NewReader("a;b\n\"c\n;d\";e\n"))
	p := NewParserFromStreamWithOptions(stream, Options{Delimiter: ';'})

	node, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]string{{"a", "b"}, {"\"c\r;d\"", "e"}}
	if got := records(t, node); !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %q, want %q", got, want)
	}
}

func TestNewParser_Default(t *testing.T) {
	p := NewParser("a")
	if p.opts.Delimiter != ',' {
		t.Errorf("default delimiter = %q, want ','", p.opts.Delimiter)
	}

	p = NewParserFromStream(shapetokenizer.NewStream("a,b"))
	node, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := records(t, node); !reflect.DeepEqual(got, [][]string{{"a", "b"}}) {
		t.Errorf("Parse() = %q", got)
	}
}

func TestStripLineEnds(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"abc":      "abc",
		"a\rb":     "ab",
		"a\r\nb\n": "ab",
		"\r\r":     "",
	}
	for in, want := range tests {
		if got := StripLineEnds(in); got != want {
			t.Errorf("StripLineEnds(%q) = %q, want %q", in, got, want)
		}
	}
}
