package syntax

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rezi"
	"github.com/shopspring/decimal"
)

// Token is a single lexical unit of an expression. Tokens are values; nothing
// that receives one modifies it.
//
// The Go type of Value depends on Category:
//
//   - Numeric: decimal.Decimal
//   - Logical: bool
//   - String, Identifier, Function: string
//   - Operator, Comparator, Combinator: Op
//   - Grouping: Group
//   - Comma: nil
type Token struct {
	Category Category
	Value    any
}

// Num returns a Numeric token.
func Num(d decimal.Decimal) Token {
	return Token{Category: Numeric, Value: d}
}

// NumInt returns a Numeric token holding i.
func NumInt(i int64) Token {
	return Num(decimal.NewFromInt(i))
}

// Bool returns a Logical token.
func Bool(b bool) Token {
	return Token{Category: Logical, Value: b}
}

// Str returns a String token.
func Str(s string) Token {
	return Token{Category: String, Value: s}
}

// Ident returns an Identifier token.
func Ident(name string) Token {
	return Token{Category: Identifier, Value: name}
}

// Fn returns a Function token naming the given function.
func Fn(name string) Token {
	return Token{Category: Function, Value: name}
}

// OpToken returns a token holding op with the category op belongs to.
func OpToken(op Op) Token {
	return Token{Category: op.Category(), Value: op}
}

// GroupToken returns a Grouping token.
func GroupToken(g Group) Token {
	return Token{Category: Grouping, Value: g}
}

// CommaToken returns a Comma token.
func CommaToken() Token {
	return Token{Category: Comma}
}

// Zero returns the Numeric token 0, which is what an empty expression reduces
// to.
func Zero() Token {
	return Num(decimal.Zero)
}

// String renders the token the way it would appear in source text.
func (t Token) String() string {
	switch v := t.Value.(type) {
	case decimal.Decimal:
		return v.String()
	case bool:
		return fmt.Sprintf("%t", v)
	case Op:
		return v.Symbol()
	case Group:
		return v.Symbol()
	case string:
		if t.Category == String {
			return fmt.Sprintf("%q", v)
		}
		return v
	case nil:
		if t.Category == Comma {
			return ","
		}
		return "<nil>"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Equal returns whether o is a Token (or *Token) with the same category and an
// equal value. Numeric values are compared by decimal value, so 2 and 2.0 are
// equal.
func (t Token) Equal(o any) bool {
	var other Token
	switch v := o.(type) {
	case Token:
		other = v
	case *Token:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}

	if t.Category != other.Category {
		return false
	}

	if d, ok := t.Value.(decimal.Decimal); ok {
		od, ok := other.Value.(decimal.Decimal)
		return ok && d.Equal(od)
	}

	return t.Value == other.Value
}

// Stream renders a sequence of tokens separated by spaces.
func Stream(tokens []Token) string {
	var sb strings.Builder
	for i := range tokens {
		if i > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteString(tokens[i].String())
	}
	return sb.String()
}

// MarshalBinary encodes the token as the category followed by the value.
func (t Token) MarshalBinary() ([]byte, error) {
	data := rezi.EncInt(int(t.Category))

	switch t.Category {
	case Numeric:
		d, ok := t.Value.(decimal.Decimal)
		if !ok {
			return nil, fmt.Errorf("numeric token holds %T", t.Value)
		}
		data = append(data, rezi.EncString(d.String())...)
	case Logical:
		b, ok := t.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("logical token holds %T", t.Value)
		}
		data = append(data, rezi.EncBool(b)...)
	case String, Identifier, Function:
		s, ok := t.Value.(string)
		if !ok {
			return nil, fmt.Errorf("%s token holds %T", t.Category, t.Value)
		}
		data = append(data, rezi.EncString(s)...)
	case Operator, Comparator, Combinator:
		op, ok := t.Value.(Op)
		if !ok {
			return nil, fmt.Errorf("%s token holds %T", t.Category, t.Value)
		}
		data = append(data, rezi.EncInt(int(op))...)
	case Grouping:
		g, ok := t.Value.(Group)
		if !ok {
			return nil, fmt.Errorf("grouping token holds %T", t.Value)
		}
		data = append(data, rezi.EncInt(int(g))...)
	case Comma:
		// no value
	default:
		return nil, fmt.Errorf("cannot encode token of category %s", t.Category)
	}

	return data, nil
}

// UnmarshalBinary decodes a token previously encoded with MarshalBinary.
func (t *Token) UnmarshalBinary(data []byte) error {
	catNum, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("category: %w", err)
	}
	data = data[n:]
	cat := Category(catNum)

	var val any
	switch cat {
	case Numeric:
		s, _, err := rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("value: %w", err)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("value: %w", err)
		}
		val = d
	case Logical:
		b, _, err := rezi.DecBool(data)
		if err != nil {
			return fmt.Errorf("value: %w", err)
		}
		val = b
	case String, Identifier, Function:
		s, _, err := rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("value: %w", err)
		}
		val = s
	case Operator, Comparator, Combinator:
		op, _, err := rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("value: %w", err)
		}
		val = Op(op)
	case Grouping:
		g, _, err := rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("value: %w", err)
		}
		val = Group(g)
	case Comma:
		// no value
	default:
		return fmt.Errorf("unknown token category %d", catNum)
	}

	t.Category = cat
	t.Value = val
	return nil
}
