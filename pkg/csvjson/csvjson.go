// Package csvjson converts delimiter-separated text into JSON text.
//
// Without header mode the result is an array of row arrays. In header mode
// the first logical row names the fields and every following row becomes an
// object keyed by those names:
//
//	out, _ := csvjson.Convert("Year,Car\n1997,Ford", true)
//	// out: [{"Year":1997,"Car":"Ford"}]
//
// # Rows and Columns
//
// Physical lines end at a line feed. A line with an odd number of quote
// characters opens a logical row that continues until the next line with an
// odd number of quotes, or the end of input. The folded line feeds surface as
// carriage returns in the column text, so they encode as \r. Carriage returns
// elsewhere are line-end noise and are dropped.
//
// Delimiters inside an open quote are column content. A doubled quote ("")
// is an escaped quote and does not open or close anything. Quote characters
// are kept in the output:
//
//	out, _ := csvjson.Convert(`"a,b",""x`, false)
//	// out: [["\"a,b\"","\"\"x"]]
//
// # Values
//
// A column is a JSON number when the whole column is a plain decimal number
// (see Classify). Everything else is a JSON string.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple
// goroutines. Each call keeps its state on its own stack and takes its
// configuration by value.
//
// # Parsing APIs
//
//   - Convert / ConvertWithOptions - string to JSON using the fast path
//   - ConvertReader / ConvertReaderWithOptions - io.Reader to JSON
//   - Parse / ParseReader - text to an AST of logical rows
//   - Render - AST to JSON
//   - ParseDocument - text to a Document with classified values
package csvjson

import (
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-core/pkg/tokenizer"

	"github.com/shapestone/shape-csvjson/internal/fastparser"
	"github.com/shapestone/shape-csvjson/internal/parser"
)

// Convert converts data to JSON text using the default comma delimiter.
//
// Empty or whitespace-only data yields "[]". In header mode, a record whose
// column count differs from the header's fails with *HeaderMismatchError and
// no output is returned.
//
// Example:
//
//	out, err := csvjson.Convert("name,age\nAlice,30", true)
//	// out: [{"name":"Alice","age":30}]
func Convert(data string, includeHeader bool) (string, error) {
	opts := DefaultOptions()
	opts.Header = includeHeader
	return ConvertWithOptions(data, opts)
}

// ConvertWithOptions converts data to JSON text with custom options.
//
// Example:
//
//	opts := csvjson.DefaultOptions()
//	opts.Delimiter = '#'
//	out, err := csvjson.ConvertWithOptions("a#b", opts)
//	// out: [["a","b"]]
func ConvertWithOptions(data string, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	records := fastparser.ParseWithDelimiter([]byte(data), opts.Delimiter)
	return convertRecords(records, opts.Header)
}

// ConvertReader converts everything read from reader to JSON text.
//
// The whole input is read into memory before conversion. A nil reader fails
// with *ArgumentError naming the data parameter.
func ConvertReader(reader io.Reader, includeHeader bool) (string, error) {
	opts := DefaultOptions()
	opts.Header = includeHeader
	return ConvertReaderWithOptions(reader, opts)
}

// ConvertReaderWithOptions converts everything read from reader with custom options.
func ConvertReaderWithOptions(reader io.Reader, opts Options) (string, error) {
	if reader == nil {
		return "", &ArgumentError{Param: "data", Err: ErrNilInput}
	}
	if err := opts.Validate(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	records := fastparser.ParseWithDelimiter(data, opts.Delimiter)
	return convertRecords(records, opts.Header)
}

// Parse parses comma-delimited data into an AST of logical rows.
//
// Returns an *ast.ArrayDataNode of records; each record is an
// *ast.ArrayDataNode of *ast.LiteralNode holding the raw column text.
// Header mode is a rendering concern, so the first row is an ordinary record.
//
// Example:
//
//	node, err := csvjson.Parse("name,age\nAlice,30")
//	records := node.(*ast.ArrayDataNode).Elements()
//	// records[0] is the header row
func Parse(data string) (ast.SchemaNode, error) {
	return ParseWithOptions(data, DefaultOptions())
}

// ParseWithOptions parses data into an AST using opts.Delimiter.
// opts.Header is ignored; pass it to Render instead.
func ParseWithOptions(data string, opts Options) (ast.SchemaNode, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := parser.NewParserWithOptions(data, parser.Options{Delimiter: opts.Delimiter})
	return p.Parse()
}

// ParseReader parses comma-delimited data from an io.Reader into an AST.
func ParseReader(reader io.Reader) (ast.SchemaNode, error) {
	return ParseReaderWithOptions(reader, DefaultOptions())
}

// ParseReaderWithOptions parses data from an io.Reader into an AST using
// opts.Delimiter.
func ParseReaderWithOptions(reader io.Reader, opts Options) (ast.SchemaNode, error) {
	if reader == nil {
		return nil, &ArgumentError{Param: "reader", Err: ErrNilInput}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	stream := tokenizer.NewStreamFromReader(reader)
	p := parser.NewParserFromStreamWithOptions(stream, parser.Options{Delimiter: opts.Delimiter})
	return p.Parse()
}

// Format returns the format identifier for this parser.
func Format() string {
	return "CSV"
}
