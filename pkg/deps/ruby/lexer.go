package ruby

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokIdent  tokenKind = iota // bare word: gem, do, true, Dir
	tokLabel                   // key of a `key: value` pair, without the colon
	tokString                  // quoted string, unquoted
	tokSymbol                  // :symbol, without the colon
	tokWords                   // %w[] / %i[] literal
	tokPunct                   // , [ ] ( ) { } => -> etc.
)

type token struct {
	kind  tokenKind
	text  string
	words []string
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

// lex splits one logical Gemfile line into tokens. Comments are dropped.
// It understands only the subset of Ruby that appears in Gemfiles.
func lex(line string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#':
			return toks, nil
		case c == '"' || c == '\'':
			s, n, err := lexString(line[i:])
			if err != nil {
				return nil, err
			}
			i += n
			toks = append(toks, token{kind: tokString, text: s})
		case c == ':' && i+1 < len(line) && line[i+1] == ':':
			toks = append(toks, token{kind: tokPunct, text: "::"})
			i += 2
		case c == ':' && i+1 < len(line) && (line[i+1] == '"' || line[i+1] == '\''):
			s, n, err := lexString(line[i+1:])
			if err != nil {
				return nil, err
			}
			i += 1 + n
			toks = append(toks, token{kind: tokSymbol, text: s})
		case c == ':' && i+1 < len(line) && isIdentStart(line[i+1]):
			j := i + 1
			for j < len(line) && isIdentChar(line[j]) {
				j++
			}
			toks = append(toks, token{kind: tokSymbol, text: line[i+1 : j]})
			i = j
		case c == '%' && i+2 < len(line) && (line[i+1] == 'w' || line[i+1] == 'i' || line[i+1] == 'W' || line[i+1] == 'I') && isOpenBracket(line[i+2]):
			words, n, err := lexWords(line[i+2:])
			if err != nil {
				return nil, err
			}
			i += 2 + n
			toks = append(toks, token{kind: tokWords, words: words})
		case isIdentStart(c) || isDigit(c):
			j := i
			for j < len(line) && (isIdentChar(line[j]) || line[j] == '.' && isDigit(c)) {
				j++
			}
			word := line[i:j]
			if j < len(line) && line[j] == ':' && (j+1 >= len(line) || line[j+1] != ':') {
				toks = append(toks, token{kind: tokLabel, text: word})
				j++
			} else {
				toks = append(toks, token{kind: tokIdent, text: word})
			}
			i = j
		case strings.HasPrefix(line[i:], "=>") || strings.HasPrefix(line[i:], "->"):
			toks = append(toks, token{kind: tokPunct, text: line[i : i+2]})
			i += 2
		default:
			toks = append(toks, token{kind: tokPunct, text: string(c)})
			i++
		}
	}
	return toks, nil
}

// lexString reads a quoted string at the start of s and returns its
// contents and the number of bytes consumed.
func lexString(s string) (string, int, error) {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		case quote:
			return b.String(), i + 1, nil
		default:
			b.WriteByte(s[i])
		}
	}
	return "", 0, fmt.Errorf("unterminated string %s", s)
}

// lexWords reads a %w / %i body starting at its opening bracket.
func lexWords(s string) ([]string, int, error) {
	closer := closingBracket(s[0])
	end := strings.IndexByte(s[1:], closer)
	if end < 0 {
		return nil, 0, fmt.Errorf("unterminated word list %s", s)
	}
	return strings.Fields(s[1 : end+1]), end + 2, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '?' || c == '!'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isOpenBracket(c byte) bool {
	return c == '[' || c == '(' || c == '{' || c == '<'
}

func closingBracket(c byte) byte {
	switch c {
	case '[':
		return ']'
	case '(':
		return ')'
	case '{':
		return '}'
	case '<':
		return '>'
	}
	return c
}

// depth returns the bracket nesting left open at the end of toks.
func depth(toks []token) int {
	d := 0
	for _, t := range toks {
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "[", "(", "{":
			d++
		case "]", ")", "}":
			d--
		}
	}
	return d
}
