package csvjson

import (
	"github.com/samber/lo"
	"github.com/shapestone/shape-core/pkg/ast"

	"github.com/shapestone/shape-csvjson/internal/fastparser"
)

// Document is a parsed input with optional header names and data records.
//
// In header mode the first logical row supplies the names and every record
// has exactly one column per name. Without header mode all rows are records
// and Headers returns nil.
//
//	doc, _ := csvjson.ParseDocument("name,age\nAlice,30", csvjson.Options{Delimiter: ',', Header: true})
//	rec, _ := doc.Record(0)
//	age, _ := rec.GetByName("age")   // "30"
//	vals, _ := doc.Values(0)         // vals[1].Kind == csvjson.KindNumber
//	out, _ := doc.JSON()             // [{"name":"Alice","age":30}]
type Document struct {
	headers []string
	records [][]string
}

// Record is a single data row of a Document.
type Record struct {
	fields  []string
	headers []string // Reference to document headers for name-based access
}

// ParseDocument parses data into a Document.
// It fails with the same errors as ConvertWithOptions.
func ParseDocument(data string, opts Options) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	records := fastparser.ParseWithDelimiter([]byte(data), opts.Delimiter)
	headers, body, err := splitHeader(records, opts.Header)
	if err != nil {
		return nil, err
	}

	return &Document{headers: headers, records: body}, nil
}

// FromAST creates a Document from an AST of logical rows, such as the
// result of Parse. With includeHeader the first row supplies the names.
func FromAST(node ast.SchemaNode, includeHeader bool) (*Document, error) {
	records, err := NodeToRecords(node)
	if err != nil {
		return nil, err
	}

	headers, body, err := splitHeader(records, includeHeader)
	if err != nil {
		return nil, err
	}

	return &Document{headers: headers, records: body}, nil
}

// Headers returns the header names, or nil without header mode.
func (d *Document) Headers() []string {
	return d.headers
}

// Len returns the number of data records. The header row is not counted.
func (d *Document) Len() int {
	return len(d.records)
}

// Record returns the data record at index.
// Returns (Record, false) if the index is out of bounds.
// Index is 0-based (0 = first data record, not the header).
func (d *Document) Record(index int) (Record, bool) {
	if index < 0 || index >= len(d.records) {
		return Record{}, false
	}

	return Record{
		fields:  d.records[index],
		headers: d.headers,
	}, true
}

// Records returns all data records.
func (d *Document) Records() []Record {
	return lo.Map(d.records, func(fields []string, _ int) Record {
		return Record{fields: fields, headers: d.headers}
	})
}

// Values returns the classified columns of the data record at index.
func (d *Document) Values(index int) ([]Value, bool) {
	rec, ok := d.Record(index)
	if !ok {
		return nil, false
	}
	return rec.Values(), true
}

// JSON renders the Document the way Convert does.
func (d *Document) JSON() (string, error) {
	if len(d.records) == 0 {
		return emptyArray, nil
	}

	out, err := encodeRecords(d.headers, d.records)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ToAST converts the Document to an AST of logical rows.
// Header names, if any, become the first row.
func (d *Document) ToAST() *ast.ArrayDataNode {
	rows := d.records
	if d.headers != nil {
		rows = append([][]string{d.headers}, d.records...)
	}
	return RecordsToNode(rows).(*ast.ArrayDataNode)
}

// Get gets the field value at the specified index.
// Returns (value, false) if the index is out of bounds.
func (r Record) Get(index int) (string, bool) {
	if index < 0 || index >= len(r.fields) {
		return "", false
	}
	return r.fields[index], true
}

// GetByName gets the field value by header name. With duplicate names the
// first match wins. Returns (value, false) if the name is not found or no
// headers are set.
func (r Record) GetByName(name string) (string, bool) {
	i := lo.IndexOf(r.headers, name)
	if i < 0 {
		return "", false
	}
	return r.Get(i)
}

// Fields returns a copy of the field values.
func (r Record) Fields() []string {
	fields := make([]string, len(r.fields))
	copy(fields, r.fields)
	return fields
}

// Values returns the classified field values.
func (r Record) Values() []Value {
	return lo.Map(r.fields, func(field string, _ int) Value {
		return Classify(field)
	})
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	return len(r.fields)
}
