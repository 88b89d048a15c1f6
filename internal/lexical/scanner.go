package lexical

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Token is one classified span of source text, half-open [StartByte, EndByte).
type Token struct {
	StartByte uint32
	EndByte   uint32
	Kind      string
}

// Kinds emitted by Scan.
const (
	KindKeyword     = "keyword"
	KindString      = "string_literal"
	KindNumber      = "number_literal"
	KindComment     = "comment"
	KindOperator    = "operator"
	KindPunctuation = "punctuation"
)

// Scan classifies content in a single left-to-right pass. At each position the
// first matching rule wins: whitespace, comment start, quote, digit,
// identifier start, operator byte, punctuation byte; anything else is skipped
// as plain text. Identifiers produce a token only when they appear in the
// lexicon's keyword table. The number rule accepts a run of ASCII digits with
// at most one decimal point (no hex, no exponents); "1.2.3" scans as a number,
// a punctuation dot, and another number.
//
// Scan cannot fail: it always terminates and returns a valid, possibly empty,
// token sequence.
func (lex *Lexicon) Scan(content []byte) []Token {
	var tokens []Token
	n := len(content)
	i := 0
	for i < n {
		b := content[i]
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			i++
			continue
		}
		if end := lex.commentEnd(content, i); end >= 0 {
			tokens = append(tokens, Token{StartByte: uint32(i), EndByte: uint32(end), Kind: KindComment})
			i = end
			continue
		}
		switch {
		case strings.IndexByte(lex.Quotes, b) >= 0:
			end := scanString(content, i)
			tokens = append(tokens, Token{StartByte: uint32(i), EndByte: uint32(end), Kind: KindString})
			i = end
		case b >= '0' && b <= '9':
			end := scanNumber(content, i)
			tokens = append(tokens, Token{StartByte: uint32(i), EndByte: uint32(end), Kind: KindNumber})
			i = end
		case isIdentStart(b):
			end := scanIdentifier(content, i)
			if lex.Keywords[string(content[i:end])] {
				tokens = append(tokens, Token{StartByte: uint32(i), EndByte: uint32(end), Kind: KindKeyword})
			}
			i = end
		case strings.IndexByte(lex.Operators, b) >= 0:
			tokens = append(tokens, Token{StartByte: uint32(i), EndByte: uint32(i + 1), Kind: KindOperator})
			i++
		case strings.IndexByte(lex.Punctuation, b) >= 0:
			tokens = append(tokens, Token{StartByte: uint32(i), EndByte: uint32(i + 1), Kind: KindPunctuation})
			i++
		default:
			i++
		}
	}
	return tokens
}

// commentEnd returns the end offset of a comment starting at i, or -1 when no
// comment marker starts there. When both markers match, the longer one wins
// (Lua's "--[[" over "--"). A line comment runs to the newline exclusive; an
// unterminated block comment runs to EOF.
func (lex *Lexicon) commentEnd(content []byte, i int) int {
	blockMatch := lex.BlockCommentStart != "" && bytes.HasPrefix(content[i:], []byte(lex.BlockCommentStart))
	lineMatch := lex.LineComment != "" && bytes.HasPrefix(content[i:], []byte(lex.LineComment))

	if blockMatch && (!lineMatch || len(lex.BlockCommentStart) >= len(lex.LineComment)) {
		rest := content[i+len(lex.BlockCommentStart):]
		end := bytes.Index(rest, []byte(lex.BlockCommentEnd))
		if end < 0 {
			return len(content)
		}
		return i + len(lex.BlockCommentStart) + end + len(lex.BlockCommentEnd)
	}
	if lineMatch {
		if nl := bytes.IndexByte(content[i:], '\n'); nl >= 0 {
			return i + nl
		}
		return len(content)
	}
	return -1
}

// scanString scans from the opening quote at i to the matching unescaped
// quote inclusive, or EOF when unterminated. Backslash escapes the next byte.
func scanString(content []byte, i int) int {
	quote := content[i]
	j := i + 1
	for j < len(content) {
		switch content[j] {
		case '\\':
			j += 2
		case quote:
			return j + 1
		default:
			j++
		}
	}
	return len(content)
}

func scanNumber(content []byte, i int) int {
	j := i
	seenDot := false
	for j < len(content) {
		b := content[j]
		if b >= '0' && b <= '9' {
			j++
			continue
		}
		if b == '.' && !seenDot {
			seenDot = true
			j++
			continue
		}
		break
	}
	return j
}

func scanIdentifier(content []byte, i int) int {
	j := i + 1
	for j < len(content) && isIdentByte(content[j]) {
		j++
	}
	return j
}

func isIdentStart(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		b >= utf8.RuneSelf
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}
