// Package fastparser splits delimiter-separated text into logical rows of raw
// column text without tokenization or AST construction.
//
// It implements the same row model as internal/parser:
//   - Physical lines end at a line feed; a carriage return is text
//   - A line with an odd number of quotes opens a logical row that continues
//     until a line with an odd number of quotes, or the end of input
//   - Folded line feeds become an embedded carriage return
//   - Carriage returns are stripped from single-line rows and closing lines
//   - Delimiters inside an open quote are content; "" is an escaped quote
//   - A line feed that ends the input does not begin another row
//
// Columns of rows that needed no rewriting share memory with the input.
package fastparser

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

// Parse splits data on commas.
func Parse(data []byte) [][]string {
	return ParseWithDelimiter(data, ',')
}

// ParseWithDelimiter splits data into logical rows of raw columns.
//
// The returned strings may alias data, so data must not be modified while the
// result is in use. Input made only of whitespace yields no rows.
func ParseWithDelimiter(data []byte, delim rune) [][]string {
	if isBlank(data) {
		return [][]string{}
	}

	p := &parser{
		data:   data,
		length: len(data),
		delim:  string(delim),
	}

	return p.parse()
}

// parser holds the scan state of one call.
type parser struct {
	data   []byte
	pos    int
	length int
	delim  string
}

func (p *parser) parse() [][]string {
	// Average line of ~32 bytes
	estimatedRows := p.length / 32
	if estimatedRows < 16 {
		estimatedRows = 16
	}
	records := make([][]string, 0, estimatedRows)

	for p.pos < p.length {
		records = append(records, splitColumns(p.nextRow(), p.delim))
	}

	return records
}

// nextRow returns the next logical row with line ends handled.
func (p *parser) nextRow() string {
	first, last := p.nextLine()
	if countQuotes(first)%2 == 0 || last {
		return stripLineEnds(first)
	}

	buf := getBuffer()
	defer func() { putBuffer(buf) }()

	buf = append(buf, first...)
	prev := first
	for !last {
		var line []byte
		line, last = p.nextLine()
		closing := countQuotes(line)%2 != 0 || last

		if !bytes.HasSuffix(prev, []byte{'\r'}) {
			buf = append(buf, '\r')
		}
		if closing {
			buf = appendStripped(buf, line)
			break
		}
		buf = append(buf, line...)
		prev = line
	}

	return string(buf)
}

// nextLine returns the bytes up to the next line feed and advances past it.
// last reports whether no further line follows.
func (p *parser) nextLine() (line []byte, last bool) {
	rest := p.data[p.pos:]
	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		p.pos = p.length
		return rest, true
	}
	p.pos += i + 1
	return rest[:i], p.pos >= p.length
}

// splitColumns splits row on delimiters outside quotes. The columns are
// substrings of row.
func splitColumns(row, delim string) []string {
	columns := getFieldSlice()
	defer func() { putFieldSlice(columns) }()

	start := 0
	open := false
	for i := 0; i < len(row); {
		c := row[i]
		if c == '"' {
			if i+1 < len(row) && row[i+1] == '"' {
				i += 2
				continue
			}
			open = !open
			i++
			continue
		}
		if !open && c == delim[0] && len(row)-i >= len(delim) && row[i:i+len(delim)] == delim {
			columns = append(columns, row[start:i])
			i += len(delim)
			start = i
			continue
		}
		i++
	}
	columns = append(columns, row[start:])

	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// stripLineEnds returns line as a string without any CR or LF. Lines that
// contain neither are returned without copying.
func stripLineEnds(line []byte) string {
	if bytes.IndexByte(line, '\r') < 0 {
		return unsafeString(line)
	}
	buf := getBuffer()
	buf = appendStripped(buf, line)
	s := string(buf)
	putBuffer(buf)
	return s
}

func appendStripped(dst, line []byte) []byte {
	for _, b := range line {
		if b != '\r' && b != '\n' {
			dst = append(dst, b)
		}
	}
	return dst
}

func countQuotes(line []byte) int {
	return bytes.Count(line, []byte{'"'})
}

// isBlank reports whether data is empty or only Unicode whitespace.
func isBlank(data []byte) bool {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if !unicode.IsSpace(r) {
			return false
		}
		i += size
	}
	return true
}
