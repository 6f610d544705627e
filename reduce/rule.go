// Package reduce implements rule-driven reduction of token streams. An Engine
// repeatedly finds the highest-priority rule whose pattern occurs in the
// stream, evaluates the matched span, and splices the result back in until a
// single token remains.
package reduce

import (
	"fmt"

	"github.com/dekarrin/tunacalc/syntax"
)

// Matcher is a predicate over a window of a token stream. Matchers hold no
// mutable state and can be shared between goroutines.
type Matcher interface {
	// Match attempts to match tokens starting at pos. It returns whether the
	// match succeeded and, if so, the tokens it consumed. A successful match
	// may consume zero tokens. pos may equal len(stream).
	Match(stream []syntax.Token, pos int) (bool, []syntax.Token)

	// Anchored returns whether the matcher may only match at position 0.
	Anchored() bool
}

// Pattern is an ordered sequence of matchers that must match consecutively.
type Pattern []Matcher

// Step selects the evaluator invoked on a matched span.
type Step int

const (
	// StepCall invokes the user function named by Rule.Func.
	StepCall Step = iota
	StepApply
	StepNegate
	StepPowNegate
	StepMulNegate
	StepPercentage
	StepExpandRange
	StepIf
	StepRound
	StepRoundInt
	StepNot
	StepGroup
)

func (s Step) String() string {
	switch s {
	case StepCall:
		return "call"
	case StepApply:
		return "apply"
	case StepNegate:
		return "negate"
	case StepPowNegate:
		return "pow_negate"
	case StepMulNegate:
		return "mul_negate"
	case StepPercentage:
		return "percentage"
	case StepExpandRange:
		return "expand_range"
	case StepIf:
		return "if"
	case StepRound:
		return "round"
	case StepRoundInt:
		return "round_int"
	case StepNot:
		return "not"
	case StepGroup:
		return "evaluate_group"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Rule pairs a pattern with the step that evaluates spans it matches.
type Rule struct {
	// Name identifies the rule in diagnostics.
	Name    string
	Pattern Pattern
	Step    Step

	// Func is the name of the user function to call. It is only used when
	// Step is StepCall.
	Func string
}

// RuleTable supplies rules in priority order, highest first, and resolves
// the user functions that StepCall rules name.
type RuleTable interface {
	Rules() []Rule
	Function(name string) (syntax.Func, bool)
}

// BinaryOp computes the result of a binary operator applied to two raw token
// values, along with the category of the result.
type BinaryOp func(left, right any) (any, syntax.Category, error)

// OperationTable resolves operators to their implementations.
type OperationTable interface {
	Lookup(op syntax.Op) (BinaryOp, bool)
}

// FindMatch scans stream for the leftmost position at which every matcher in
// p matches in sequence. It returns that position and the consumed span. A
// pattern whose first matcher is anchored is only tried at position 0. Matches
// that consume no tokens are not reported, since rewriting them could never
// shrink the stream.
func FindMatch(p Pattern, stream []syntax.Token) (pos int, span []syntax.Token, ok bool) {
	if len(p) == 0 {
		return 0, nil, false
	}

	for pos = 0; pos <= len(stream); pos++ {
		span = nil
		matched := true
		for _, m := range p {
			mOK, consumed := m.Match(stream, pos+len(span))
			if !mOK {
				matched = false
				break
			}
			span = append(span, consumed...)
		}

		if matched && len(span) > 0 {
			return pos, span, true
		}

		if p[0].Anchored() {
			break
		}
	}

	return 0, nil, false
}
