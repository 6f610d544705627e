// Package lex converts calculator expression text into token streams.
package lex

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dekarrin/tunacalc/syntax"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// scanner recognizes one kind of lexeme at the start of the remaining input.
type scanner struct {
	pattern *regexp.Regexp

	// emit converts the matched text into tokens. A nil emit skips the text.
	emit func(lx *lexer, m []string) ([]syntax.Token, error)
}

var scanners = []scanner{
	{pattern: regexp.MustCompile(`^\s+`)},
	{pattern: regexp.MustCompile(`^(?:\d+(?:\.\d+)?|\.\d+)(?:[eE][+-]?\d+)?`), emit: emitNumeric},
	{pattern: regexp.MustCompile(`^"([^"]*)"`), emit: emitString},
	{pattern: regexp.MustCompile(`^'([^']*)'`), emit: emitString},
	{pattern: regexp.MustCompile(`^(?i:true|false)\b`), emit: emitLogical},
	{pattern: regexp.MustCompile(`^(?i:and|or)\b`), emit: emitCombinator},
	{pattern: regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*\(`), emit: emitFunction},
	{pattern: regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`), emit: emitIdentifier},
	{pattern: regexp.MustCompile(`^(?:<=|>=|!=|<>|==|<|>|=)`), emit: emitComparator},
	{pattern: regexp.MustCompile(`^(?:&&|\|\|)`), emit: emitCombinator},
	{pattern: regexp.MustCompile(`^[-+*/^%]`), emit: emitOperator},
	{pattern: regexp.MustCompile(`^[()]`), emit: emitGrouping},
	{pattern: regexp.MustCompile(`^,`), emit: emitComma},
}

var symbolOps = map[string]syntax.Op{
	"+":  syntax.OpAdd,
	"-":  syntax.OpSubtract,
	"*":  syntax.OpMultiply,
	"/":  syntax.OpDivide,
	"^":  syntax.OpPow,
	"%":  syntax.OpMod,
	"<":  syntax.OpLessThan,
	"<=": syntax.OpLessThanEqual,
	">":  syntax.OpGreaterThan,
	">=": syntax.OpGreaterThanEqual,
	"!=": syntax.OpNotEqual,
	"<>": syntax.OpNotEqual,
	"=":  syntax.OpEqual,
	"==": syntax.OpEqual,

	"and": syntax.OpAnd,
	"&&":  syntax.OpAnd,
	"or":  syntax.OpOr,
	"||":  syntax.OpOr,
}

type lexer struct {
	src    string
	lines  []string
	offset int
	fold   cases.Caser

	// offsets of open parens not yet closed.
	opens []int
}

// Fold returns the case-folded form of a name, which is how identifiers and
// function names are stored in tokens.
func Fold(name string) string {
	return cases.Fold().String(name)
}

// Lex converts src into a token stream. Function names, identifiers, and
// keywords are case-folded.
func Lex(src string) ([]syntax.Token, error) {
	lx := &lexer{
		src:   src,
		lines: strings.Split(src, "\n"),
		fold:  cases.Fold(),
	}

	var tokens []syntax.Token
	for lx.offset < len(src) {
		rest := src[lx.offset:]

		matched := false
		for _, sc := range scanners {
			m := sc.pattern.FindStringSubmatch(rest)
			if m == nil {
				continue
			}
			matched = true

			if sc.emit != nil {
				toks, err := sc.emit(lx, m)
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, toks...)
			}
			lx.offset += len(m[0])
			break
		}

		if !matched {
			ch, _ := utf8.DecodeRuneInString(rest)
			return nil, lx.errorAt(lx.offset, string(ch), "unexpected character %q", ch)
		}
	}

	if len(lx.opens) > 0 {
		return nil, lx.errorAt(lx.opens[len(lx.opens)-1], "(", "unclosed parenthesis")
	}

	return tokens, nil
}

func (lx *lexer) errorAt(offset int, source string, format string, a ...any) SyntaxError {
	line, pos := lx.position(offset)
	se := SyntaxError{
		source:  source,
		line:    line,
		pos:     pos,
		message: fmt.Sprintf(format, a...),
	}
	if line > 0 && line <= len(lx.lines) {
		se.sourceLine = lx.lines[line-1]
	}
	return se
}

// position converts a byte offset into a 1-indexed line and rune column.
func (lx *lexer) position(offset int) (line, pos int) {
	line = 1
	lineStart := 0
	for i := 0; i < offset && i < len(lx.src); i++ {
		if lx.src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, utf8.RuneCountInString(lx.src[lineStart:offset]) + 1
}

func emitNumeric(lx *lexer, m []string) ([]syntax.Token, error) {
	if i := strings.IndexAny(m[0], "eE"); i >= 0 {
		exp, err := strconv.Atoi(m[0][i+1:])
		if err != nil || exp > syntax.MaxScale || exp < -syntax.MaxScale {
			return nil, lx.errorAt(lx.offset, m[0], "exponent must be between -%d and %d", syntax.MaxScale, syntax.MaxScale)
		}
	}

	d, err := decimal.NewFromString(m[0])
	if err != nil {
		return nil, lx.errorAt(lx.offset, m[0], "bad number: %v", err)
	}
	return []syntax.Token{syntax.Num(d)}, nil
}

func emitString(lx *lexer, m []string) ([]syntax.Token, error) {
	return []syntax.Token{syntax.Str(m[1])}, nil
}

func emitLogical(lx *lexer, m []string) ([]syntax.Token, error) {
	return []syntax.Token{syntax.Bool(lx.fold.String(m[0]) == "true")}, nil
}

func emitCombinator(lx *lexer, m []string) ([]syntax.Token, error) {
	return []syntax.Token{syntax.OpToken(symbolOps[lx.fold.String(m[0])])}, nil
}

func emitComparator(lx *lexer, m []string) ([]syntax.Token, error) {
	return []syntax.Token{syntax.OpToken(symbolOps[m[0]])}, nil
}

func emitOperator(lx *lexer, m []string) ([]syntax.Token, error) {
	return []syntax.Token{syntax.OpToken(symbolOps[m[0]])}, nil
}

func emitFunction(lx *lexer, m []string) ([]syntax.Token, error) {
	// the open paren is the last byte of the match.
	lx.opens = append(lx.opens, lx.offset+len(m[0])-1)
	return []syntax.Token{
		syntax.Fn(lx.fold.String(m[1])),
		syntax.GroupToken(syntax.GroupFuncOpen),
	}, nil
}

func emitIdentifier(lx *lexer, m []string) ([]syntax.Token, error) {
	return []syntax.Token{syntax.Ident(lx.fold.String(m[0]))}, nil
}

func emitGrouping(lx *lexer, m []string) ([]syntax.Token, error) {
	if m[0] == "(" {
		lx.opens = append(lx.opens, lx.offset)
		return []syntax.Token{syntax.GroupToken(syntax.GroupOpen)}, nil
	}

	if len(lx.opens) == 0 {
		return nil, lx.errorAt(lx.offset, ")", "too many closing parentheses")
	}
	lx.opens = lx.opens[:len(lx.opens)-1]
	return []syntax.Token{syntax.GroupToken(syntax.GroupClose)}, nil
}

func emitComma(lx *lexer, m []string) ([]syntax.Token, error) {
	return []syntax.Token{syntax.CommaToken()}, nil
}
