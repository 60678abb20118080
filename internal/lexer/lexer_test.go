// SPDX-License-Identifier: MPL-2.0

package lexer

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain words",
			line: "a b",
			want: []string{"a", "b"},
		},
		{
			name: "runs of whitespace",
			line: "  ls \t -la  ",
			want: []string{"ls", "-la"},
		},
		{
			name: "double quotes retained",
			line: `a "b c" d`,
			want: []string{"a", `"b c"`, "d"},
		},
		{
			name: "single quotes retained",
			line: `a 'b c' d`,
			want: []string{"a", "'b c'", "d"},
		},
		{
			name: "quoted region glued to word",
			line: `pre"mid dle"post`,
			want: []string{`pre"mid dle"post`},
		},
		{
			name: "escaped space joins words",
			line: `a\ b c`,
			want: []string{`a\ b`, "c"},
		},
		{
			name: "escaped quote inside double quotes",
			line: `say "he said \"hi\""`,
			want: []string{"say", `"he said \"hi\""`},
		},
		{
			name: "no escape processing in single quotes",
			line: `'a\' b`,
			want: []string{`'a\'`, "b"},
		},
		{
			name: "empty line",
			line: "",
			want: nil,
		},
		{
			name: "whitespace only",
			line: " \t ",
			want: nil,
		},
		{
			name: "empty double quotes",
			line: `a ""`,
			want: []string{"a", `""`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.line)
			if err != nil {
				t.Fatalf("Tokenize(%q) returned error: %v", tt.line, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %#v, want %#v", tt.line, got, tt.want)
			}
		})
	}
}

func TestTokenizeUnterminatedQuote(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind QuoteKind
	}{
		{name: "open double quote", line: `echo "abc`, kind: DoubleQuote},
		{name: "open single quote", line: `echo 'abc`, kind: SingleQuote},
		{name: "escaped closing double quote", line: `echo "abc\"`, kind: DoubleQuote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.line)
			if err == nil {
				t.Fatalf("Tokenize(%q) succeeded, want unterminated quote error", tt.line)
			}
			if !errors.Is(err, ErrUnterminatedQuote) {
				t.Errorf("error %v does not wrap ErrUnterminatedQuote", err)
			}
			var uq *UnterminatedQuoteError
			if !errors.As(err, &uq) {
				t.Fatalf("error %v is not an UnterminatedQuoteError", err)
			}
			if uq.Kind != tt.kind {
				t.Errorf("quote kind = %v, want %v", uq.Kind, tt.kind)
			}
		})
	}
}

// Tokenizing, re-joining with single spaces, and tokenizing again must give
// the same sequence: tokenization is idempotent on already-tokenized input.
func TestTokenizeIdempotent(t *testing.T) {
	lines := []string{
		`a b c`,
		`a "b c" d`,
		`'quoted lit' plain`,
		`mix"ed to"ken end`,
	}

	for _, line := range lines {
		first, err := Tokenize(line)
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", line, err)
		}
		second, err := Tokenize(strings.Join(first, " "))
		if err != nil {
			t.Fatalf("re-Tokenize of %q: %v", line, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("tokenization not idempotent for %q: %#v vs %#v", line, first, second)
		}
	}
}

func TestQuoteKindString(t *testing.T) {
	if SingleQuote.String() != "single" || DoubleQuote.String() != "double" {
		t.Errorf("unexpected quote kind strings: %q, %q", SingleQuote, DoubleQuote)
	}
}
