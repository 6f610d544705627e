package syntax

import "fmt"

// Op is the value of an Operator, Comparator, or Combinator token.
type Op int

const (
	OpAdd Op = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpPow
	OpMod
	OpLessThan
	OpLessThanEqual
	OpGreaterThan
	OpGreaterThanEqual
	OpNotEqual
	OpEqual
	OpAnd
	OpOr
)

// Symbol returns the canonical source text of the operator.
func (op Op) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpPow:
		return "^"
	case OpMod:
		return "%"
	case OpLessThan:
		return "<"
	case OpLessThanEqual:
		return "<="
	case OpGreaterThan:
		return ">"
	case OpGreaterThanEqual:
		return ">="
	case OpNotEqual:
		return "!="
	case OpEqual:
		return "="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		panic(fmt.Sprintf("unknown operator: %d", op))
	}
}

// String returns the name of the operation the operator performs, such as
// "add" or "lt".
func (op Op) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	case OpPow:
		return "pow"
	case OpMod:
		return "mod"
	case OpLessThan:
		return "lt"
	case OpLessThanEqual:
		return "le"
	case OpGreaterThan:
		return "gt"
	case OpGreaterThanEqual:
		return "ge"
	case OpNotEqual:
		return "ne"
	case OpEqual:
		return "eq"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// Category returns the token category that a token holding op has.
func (op Op) Category() Category {
	switch op {
	case OpLessThan, OpLessThanEqual, OpGreaterThan, OpGreaterThanEqual, OpNotEqual, OpEqual:
		return Comparator
	case OpAnd, OpOr:
		return Combinator
	default:
		return Operator
	}
}

// Group is the value of a Grouping token.
type Group int

const (
	GroupOpen Group = iota
	GroupClose

	// GroupFuncOpen is the open parenthesis that immediately follows a function
	// name.
	GroupFuncOpen
)

func (g Group) Symbol() string {
	switch g {
	case GroupOpen, GroupFuncOpen:
		return "("
	case GroupClose:
		return ")"
	default:
		panic(fmt.Sprintf("unknown group: %d", g))
	}
}

func (g Group) String() string {
	switch g {
	case GroupOpen:
		return "open"
	case GroupClose:
		return "close"
	case GroupFuncOpen:
		return "fopen"
	default:
		return fmt.Sprintf("Group(%d)", int(g))
	}
}
