// SPDX-License-Identifier: MPL-2.0

// Package lexer splits one logical command line into shell words and applies
// variable and tilde expansion. The scan is a single left-to-right pass over
// bytes with no backtracking. Quote characters are kept inside the produced
// tokens; the expansion step decides literalness from them.
package lexer

import (
	"errors"
	"fmt"
)

// ErrUnterminatedQuote is the sentinel error wrapped by UnterminatedQuoteError.
var ErrUnterminatedQuote = errors.New("unterminated quote")

type (
	// QuoteKind identifies which quoting style was left open.
	QuoteKind int

	// UnterminatedQuoteError is returned when the end of the line is reached
	// while a quoted region is still open. It is scoped to the offending line:
	// the caller reports it and the session continues.
	UnterminatedQuoteError struct {
		Kind QuoteKind
	}
)

// Quote kinds.
const (
	SingleQuote QuoteKind = iota
	DoubleQuote
)

// String returns the quote character description.
func (k QuoteKind) String() string {
	if k == SingleQuote {
		return "single"
	}
	return "double"
}

// Error implements the error interface.
func (e *UnterminatedQuoteError) Error() string {
	return fmt.Sprintf("unterminated %s quote", e.Kind)
}

// Unwrap returns ErrUnterminatedQuote so callers can use errors.Is for
// programmatic detection.
func (e *UnterminatedQuoteError) Unwrap() error { return ErrUnterminatedQuote }

// Tokenize splits line into raw tokens. Runs of space/tab separate tokens;
// double quotes open a region in which a backslash escapes the following
// byte; single quotes open a verbatim region with no escape processing; a
// bare backslash escapes exactly the next byte. Quote characters remain part
// of the token. The only failure mode is an unterminated quoted region.
func Tokenize(line string) ([]string, error) {
	var tokens []string
	for i := 0; i < len(line); {
		if line[i] == ' ' || line[i] == '\t' {
			i++
			continue
		}
		end, err := scanToken(line, i)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, line[i:end])
		i = end
	}
	return tokens, nil
}

// scanToken returns the index just past the token that starts at i.
func scanToken(line string, i int) (int, error) {
	var err error
	for i < len(line) {
		switch line[i] {
		case ' ', '\t':
			return i, nil
		case '"':
			i, err = scanDoubleQuoted(line, i+1)
			if err != nil {
				return 0, err
			}
		case '\'':
			i, err = scanSingleQuoted(line, i+1)
			if err != nil {
				return 0, err
			}
		case '\\':
			// Escapes exactly the next byte; both stay in the token.
			i += 2
		default:
			i++
		}
	}
	if i > len(line) {
		// A trailing backslash escaped a byte that is not there.
		i = len(line)
	}
	return i, nil
}

// scanDoubleQuoted consumes bytes until the closing double quote and returns
// the index just past it. A backslash escapes the following byte, including
// a quote.
func scanDoubleQuoted(line string, i int) (int, error) {
	for i < len(line) {
		switch line[i] {
		case '"':
			return i + 1, nil
		case '\\':
			i += 2
		default:
			i++
		}
	}
	return 0, &UnterminatedQuoteError{Kind: DoubleQuote}
}

// scanSingleQuoted consumes bytes verbatim until the closing single quote
// and returns the index just past it.
func scanSingleQuoted(line string, i int) (int, error) {
	for i < len(line) {
		if line[i] == '\'' {
			return i + 1, nil
		}
		i++
	}
	return 0, &UnterminatedQuoteError{Kind: SingleQuote}
}
