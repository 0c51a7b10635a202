package csvjson

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// NodeToRecords converts an AST of logical rows to raw column text.
//
// The node must be an *ast.ArrayDataNode of records, each an
// *ast.ArrayDataNode of *ast.LiteralNode string values, as produced by Parse.
// A record node on its own is returned as a single row.
//
// Example:
//
//	node, _ := csvjson.Parse("name,age\nAlice,30")
//	records, _ := csvjson.NodeToRecords(node)
//	// records is [][]string{{"name","age"}, {"Alice","30"}}
func NodeToRecords(node ast.SchemaNode) ([][]string, error) {
	arr, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("csvjson: unsupported node type: %T", node)
	}

	elements := arr.Elements()
	if len(elements) == 0 {
		return [][]string{}, nil
	}

	// A record node holds literals directly.
	if _, ok := elements[0].(*ast.LiteralNode); ok {
		fields, err := recordFields(arr)
		if err != nil {
			return nil, err
		}
		return [][]string{fields}, nil
	}

	records := make([][]string, len(elements))
	for i, elem := range elements {
		record, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			return nil, fmt.Errorf("csvjson: record %d: unsupported node type: %T", i, elem)
		}
		fields, err := recordFields(record)
		if err != nil {
			return nil, fmt.Errorf("csvjson: record %d: %w", i, err)
		}
		records[i] = fields
	}
	return records, nil
}

func recordFields(record *ast.ArrayDataNode) ([]string, error) {
	elements := record.Elements()
	fields := make([]string, len(elements))
	for j, elem := range elements {
		lit, ok := elem.(*ast.LiteralNode)
		if !ok {
			return nil, fmt.Errorf("field %d: unsupported node type: %T", j, elem)
		}
		s, ok := lit.Value().(string)
		if !ok {
			s = fmt.Sprintf("%v", lit.Value())
		}
		fields[j] = s
	}
	return fields, nil
}

// RecordsToNode converts raw column text to an AST of logical rows.
//
// Example:
//
//	node := csvjson.RecordsToNode([][]string{{"a", "1"}})
//	out, _ := csvjson.Render(node, false)
//	// out: [["a",1]]
func RecordsToNode(records [][]string) ast.SchemaNode {
	// Use empty position since we're creating nodes programmatically
	pos := ast.ZeroPosition()

	nodes := make([]ast.SchemaNode, len(records))
	for i, record := range records {
		fields := make([]ast.SchemaNode, len(record))
		for j, field := range record {
			fields[j] = ast.NewLiteralNode(field, pos)
		}
		nodes[i] = ast.NewArrayDataNode(fields, pos)
	}
	return ast.NewArrayDataNode(nodes, pos)
}
