package csvjson

import (
	"bytes"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/samber/lo"

	"github.com/shapestone/shape-csvjson/internal/parser"
)

// emptyArray is the output for input without rows.
const emptyArray = "[]"

// splitHeader separates header names from data records. Without header mode
// every record is data. In header mode each data record must have exactly as
// many columns as there are names.
func splitHeader(records [][]string, includeHeader bool) ([]string, [][]string, error) {
	if !includeHeader || len(records) == 0 {
		return nil, records, nil
	}

	headers := lo.Map(records[0], func(name string, _ int) string {
		return parser.StripLineEnds(name)
	})
	body := records[1:]
	for i, record := range body {
		if len(record) != len(headers) {
			return nil, nil, &HeaderMismatchError{
				Record:  i + 2,
				Columns: len(record),
				Headers: len(headers),
			}
		}
	}

	return headers, body, nil
}

// encodeRecords writes records as a JSON array: of arrays when headers is nil,
// of objects keyed by headers otherwise.
func encodeRecords(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf,
		jsontext.AllowDuplicateNames(true),
		jsontext.AllowInvalidUTF8(true),
	)

	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return nil, err
	}
	for _, record := range records {
		var err error
		if headers != nil {
			err = encodeObject(enc, headers, record)
		} else {
			err = encodeArray(enc, record)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := enc.WriteToken(jsontext.EndArray); err != nil {
		return nil, err
	}

	// The encoder terminates each top-level value with a newline.
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

func encodeArray(enc *jsontext.Encoder, record []string) error {
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for _, column := range record {
		if err := encodeColumn(enc, column); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndArray)
}

func encodeObject(enc *jsontext.Encoder, headers, record []string) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for j, name := range headers {
		if err := enc.WriteToken(jsontext.String(name)); err != nil {
			return err
		}
		if err := encodeColumn(enc, record[j]); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

func encodeColumn(enc *jsontext.Encoder, column string) error {
	v := Classify(column)
	if v.Kind == KindNumber {
		return enc.WriteValue(jsontext.Value(v.Number))
	}
	return enc.WriteToken(jsontext.String(column))
}

// convertRecords runs header extraction and encoding over parsed records.
func convertRecords(records [][]string, includeHeader bool) (string, error) {
	headers, body, err := splitHeader(records, includeHeader)
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return emptyArray, nil
	}

	out, err := encodeRecords(headers, body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
