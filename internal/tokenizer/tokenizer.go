package tokenizer

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// Options configures the tokenizer behavior.
type Options struct {
	// Delimiter is the column separator. Default: ','
	Delimiter rune
}

// DefaultOptions returns default tokenizer options.
func DefaultOptions() Options {
	return Options{
		Delimiter: ',',
	}
}

// NewTokenizer creates a tokenizer with the default comma delimiter.
func NewTokenizer() tokenizer.Tokenizer {
	return NewTokenizerWithOptions(DefaultOptions())
}

// NewTokenizerWithOptions creates a tokenizer with custom options.
//
// Matchers are tried in order:
// 1. Line feed
// 2. Delimiter
// 3. Double quote
// 4. Text (everything else, carriage returns included)
func NewTokenizerWithOptions(opts Options) tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		tokenizer.StringMatcherFunc(TokenLineFeed, "\n"),
		tokenizer.StringMatcherFunc(TokenDelimiter, string(opts.Delimiter)),
		tokenizer.StringMatcherFunc(TokenDQuote, `"`),
		TextMatcherWithDelim(opts.Delimiter),
	)
}

// NewTokenizerWithStream creates a tokenizer over a pre-configured stream.
// This is used internally to support reading from io.Reader.
func NewTokenizerWithStream(stream tokenizer.Stream) tokenizer.Tokenizer {
	return NewTokenizerWithStreamAndOptions(stream, DefaultOptions())
}

// NewTokenizerWithStreamAndOptions creates a tokenizer from a stream with custom options.
func NewTokenizerWithStreamAndOptions(stream tokenizer.Stream, opts Options) tokenizer.Tokenizer {
	tok := NewTokenizerWithOptions(opts)
	tok.InitializeFromStream(stream)
	return tok
}

// TextMatcherWithDelim creates a matcher for runs of characters that are not
// the delimiter, a quote or a line feed.
//
// Grammar:
//
//	Text = Character+ ;
//	Character = <any character except delimiter, quote, LF> ;
func TextMatcherWithDelim(delim rune) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		if delim < 128 {
			if byteStream, ok := stream.(tokenizer.ByteStream); ok {
				return textMatcherByte(byteStream, byte(delim))
			}
		}
		return textMatcherRune(stream, delim)
	}
}

// textMatcherByte scans ASCII-delimited text straight from the byte stream.
func textMatcherByte(stream tokenizer.ByteStream, delim byte) *tokenizer.Token {
	startPos := stream.BytePosition()

	for {
		b, ok := stream.PeekByte()
		if !ok {
			break
		}
		if b == delim || b == '"' || b == '\n' {
			break
		}
		stream.NextByte()
	}

	if stream.BytePosition() == startPos {
		return nil
	}

	value := stream.SliceFrom(startPos)
	return tokenizer.NewToken(TokenText, []rune(string(value)))
}

func textMatcherRune(stream tokenizer.Stream, delim rune) *tokenizer.Token {
	var value []rune

	for {
		r, ok := stream.PeekChar()
		if !ok {
			break
		}
		if r == delim || r == '"' || r == '\n' {
			break
		}
		stream.NextChar()
		value = append(value, r)
	}

	if len(value) == 0 {
		return nil
	}

	return tokenizer.NewToken(TokenText, value)
}
