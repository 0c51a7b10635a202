// Package parser builds an AST of logical rows from delimiter-separated text.
//
// The parser consumes physical lines from the tokenizer, folds lines that
// belong to one logical row because a quoted field spans a line break, and
// splits each logical row into raw column text. Quote characters are kept in
// the column text; classification and JSON encoding happen later.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-csvjson/internal/tokenizer"
)

// EmbeddedBreak is the text that replaces a line feed folded into a logical row.
const EmbeddedBreak = "\r"

// ErrUnexpectedInput is returned when the tokenizer stops before the end of the stream.
var ErrUnexpectedInput = errors.New("unexpected input")

// Options configures the parser behavior.
type Options struct {
	// Delimiter is the column separator. Default: ','
	Delimiter rune
}

// DefaultOptions returns default parser options.
func DefaultOptions() Options {
	return Options{
		Delimiter: ',',
	}
}

// Parser turns a token stream into records of raw column text.
// It maintains a single token lookahead.
type Parser struct {
	stream     shapetokenizer.Stream
	tokenizer  *shapetokenizer.Tokenizer
	current    *shapetokenizer.Token
	hasToken   bool
	opts       Options
	line       int
	sawContent bool
}

// line is one physical line: the tokens between two line feeds.
type line struct {
	tokens []*shapetokenizer.Token
	quotes int
	pos    ast.Position
	last   bool
}

// piece is a token kind and value after line-end handling.
type piece struct {
	kind  string
	value string
}

// NewParser creates a parser for the given input string.
// For parsing from io.Reader, use NewParserFromStream instead.
func NewParser(input string) *Parser {
	return NewParserWithOptions(input, DefaultOptions())
}

// NewParserWithOptions creates a parser with custom options.
func NewParserWithOptions(input string, opts Options) *Parser {
	return newParserWithStreamAndOptions(shapetokenizer.NewStream(input), opts)
}

// NewParserFromStream creates a parser using a pre-configured stream.
// This allows parsing from io.Reader using tokenizer.NewStreamFromReader.
func NewParserFromStream(stream shapetokenizer.Stream) *Parser {
	return NewParserFromStreamWithOptions(stream, DefaultOptions())
}

// NewParserFromStreamWithOptions creates a parser from a stream with custom options.
func NewParserFromStreamWithOptions(stream shapetokenizer.Stream, opts Options) *Parser {
	return newParserWithStreamAndOptions(stream, opts)
}

func newParserWithStreamAndOptions(stream shapetokenizer.Stream, opts Options) *Parser {
	tok := tokenizer.NewTokenizerWithStreamAndOptions(stream, tokenizer.Options{
		Delimiter: opts.Delimiter,
	})

	p := &Parser{
		stream:    stream,
		tokenizer: &tok,
		opts:      opts,
		line:      1,
	}
	p.advance() // Load first token
	return p
}

// Parse parses the input and returns an AST of logical rows.
//
// Grammar:
//
//	File        = { LogicalRow } ;
//	LogicalRow  = Line | OpenLine { Line } CloseLine ;
//	Line        = { Text | Delimiter | DQuote } LF ;
//
// An OpenLine is a line with an odd number of quotes; the logical row ends at
// the next line with an odd number of quotes or at end of input.
//
// Returns *ast.ArrayDataNode of records, each an *ast.ArrayDataNode of
// *ast.LiteralNode string values. Input made only of whitespace yields an
// empty array.
func (p *Parser) Parse() (ast.SchemaNode, error) {
	records := make([]ast.SchemaNode, 0, 16)

	for {
		record, ok := p.parseRecord()
		if !ok {
			break
		}
		records = append(records, record)
	}

	if !p.stream.IsEos() {
		return nil, fmt.Errorf("line %d: %w", p.line, ErrUnexpectedInput)
	}

	if !p.sawContent {
		return ast.NewArrayDataNode([]ast.SchemaNode{}, ast.ZeroPosition()), nil
	}

	return ast.NewArrayDataNode(records, ast.ZeroPosition()), nil
}

// parseRecord reads one logical row, folding physical lines while a quote is open.
func (p *Parser) parseRecord() (*ast.ArrayDataNode, bool) {
	first, ok := p.nextLine()
	if !ok {
		return nil, false
	}

	open := first.quotes%2 != 0
	var pieces []piece
	pieces = appendLine(pieces, first, !open || first.last)

	prev := first
	for open && !prev.last {
		next, ok := p.nextLine()
		if !ok {
			break
		}
		closing := next.quotes%2 != 0 || next.last
		if !prev.endsWithCR() {
			pieces = append(pieces, piece{kind: tokenizer.TokenText, value: EmbeddedBreak})
		}
		pieces = appendLine(pieces, next, closing)
		if closing {
			break
		}
		prev = next
	}

	return p.splitColumns(pieces, first.pos), true
}

// appendLine adds the pieces of one physical line. A stripped line loses all
// of its carriage returns.
func appendLine(pieces []piece, l line, strip bool) []piece {
	for _, tok := range l.tokens {
		value := tok.ValueString()
		if tok.Kind() == tokenizer.TokenText && strip {
			value = StripLineEnds(value)
			if value == "" {
				continue
			}
		}
		pieces = append(pieces, piece{kind: tok.Kind(), value: value})
	}
	return pieces
}

// endsWithCR reports whether the line ends with a carriage return, as lines of
// CRLF input do. The line feed folded after such a line adds no second break.
func (l line) endsWithCR() bool {
	n := len(l.tokens)
	if n == 0 {
		return false
	}
	last := l.tokens[n-1]
	return last.Kind() == tokenizer.TokenText && strings.HasSuffix(last.ValueString(), EmbeddedBreak)
}

// splitColumns splits a logical row on delimiters that are outside quotes.
//
// A doubled quote is an escaped quote: it is kept as "" and does not change the
// quote state. Any other quote toggles it. Delimiters inside an open quote are
// column content.
func (p *Parser) splitColumns(pieces []piece, pos ast.Position) *ast.ArrayDataNode {
	fields := make([]ast.SchemaNode, 0, 8)
	var value strings.Builder
	open := false

	for i := 0; i < len(pieces); i++ {
		pc := pieces[i]
		switch pc.kind {
		case tokenizer.TokenDQuote:
			if i+1 < len(pieces) && pieces[i+1].kind == tokenizer.TokenDQuote {
				value.WriteString(`""`)
				i++
				continue
			}
			open = !open
			value.WriteString(pc.value)
		case tokenizer.TokenDelimiter:
			if open {
				value.WriteString(pc.value)
				continue
			}
			fields = append(fields, ast.NewLiteralNode(value.String(), pos))
			value.Reset()
		default:
			value.WriteString(pc.value)
		}
	}
	fields = append(fields, ast.NewLiteralNode(value.String(), pos))

	return ast.NewArrayDataNode(fields, pos)
}

// nextLine consumes tokens up to and including the next line feed.
// It reports false when the input is exhausted. A line feed that ends the
// input does not begin another line.
func (p *Parser) nextLine() (line, bool) {
	if !p.hasToken {
		return line{}, false
	}

	l := line{pos: p.position()}
	for p.hasToken {
		tok := p.peek()
		p.advance()
		if strings.TrimSpace(tok.ValueString()) != "" {
			p.sawContent = true
		}
		if tok.Kind() == tokenizer.TokenLineFeed {
			p.line++
			break
		}
		if tok.Kind() == tokenizer.TokenDQuote {
			l.quotes++
		}
		l.tokens = append(l.tokens, tok)
	}
	l.last = !p.hasToken

	return l, true
}

// StripLineEnds removes every carriage return and line feed from s.
func StripLineEnds(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

// Helper methods

// peek returns current token without advancing.
func (p *Parser) peek() *shapetokenizer.Token {
	return p.current
}

// advance moves to next token.
func (p *Parser) advance() {
	token, ok := p.tokenizer.NextToken()
	if ok {
		p.current = token
		p.hasToken = true
	} else {
		p.hasToken = false
		p.current = nil
	}
}

// position returns current position for AST nodes.
func (p *Parser) position() ast.Position {
	if p.hasToken && p.current != nil {
		return ast.NewPosition(
			p.current.Offset(),
			p.current.Row(),
			p.current.Column(),
		)
	}
	return ast.ZeroPosition()
}
