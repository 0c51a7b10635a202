// Package tokenizer provides character-level tokenization of delimiter-separated
// text using Shape's tokenizer framework.
package tokenizer

// Token type constants for delimiter-separated text.
//
// Only the line feed terminates a physical line. A carriage return is ordinary
// text at this level; the parser decides when it is line-end noise.
const (
	// Structural tokens
	TokenDelimiter = "Delimiter" // configured column separator
	TokenDQuote    = "DQuote"    // " (quote character)
	TokenLineFeed  = "LineFeed"  // \n (physical line boundary)

	// Content token
	TokenText = "Text" // run of characters that are not structural
)
