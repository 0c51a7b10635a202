package csvjson

import (
	"github.com/shapestone/shape-core/pkg/ast"
)

// Render converts an AST of logical rows to JSON bytes.
//
// The node should be the result of Parse or ParseReader. Rendering follows
// the same rules as Convert: columns are classified, header mode keys every
// data row by the first row, and a nil node or a node without rows yields [].
//
// Example:
//
//	node, _ := csvjson.Parse("name,age\nAlice,30")
//	out, _ := csvjson.Render(node, true)
//	// out: [{"name":"Alice","age":30}]
func Render(node ast.SchemaNode, includeHeader bool) ([]byte, error) {
	if node == nil {
		return []byte(emptyArray), nil
	}

	records, err := NodeToRecords(node)
	if err != nil {
		return nil, err
	}

	headers, body, err := splitHeader(records, includeHeader)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return []byte(emptyArray), nil
	}

	return encodeRecords(headers, body)
}
