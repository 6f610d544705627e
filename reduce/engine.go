package reduce

import (
	"errors"
	"fmt"

	"github.com/dekarrin/tunacalc/syntax"
)

// DefaultMaxDepth is the nesting limit used when Engine.MaxDepth is not set.
const DefaultMaxDepth = 64

// Engine reduces token streams to a single token using the rules of a
// RuleTable. An Engine holds no per-evaluation state; it is safe for
// concurrent use as long as its RuleTable and OperationTable are.
type Engine struct {
	Rules RuleTable
	Ops   OperationTable

	// MaxDepth is the maximum number of nested sub-stream reductions that a
	// single evaluation may perform. 0 means DefaultMaxDepth.
	MaxDepth int
}

// New returns an Engine that uses the given rules and operations.
func New(rules RuleTable, ops OperationTable) *Engine {
	return &Engine{Rules: rules, Ops: ops}
}

// Evaluate reduces stream to a single token. An empty stream reduces to the
// Numeric token 0. The given slice is not modified.
//
// If at some point no rule matches and more than one token remains, the
// returned error is an Error caused by ErrNoRuleMatched whose Residual is the
// stream at that point.
func (eng *Engine) Evaluate(stream []syntax.Token) (syntax.Token, error) {
	if eng.Rules == nil {
		return syntax.Token{}, fmt.Errorf("engine has no rule table")
	}

	tokens := make([]syntax.Token, len(stream))
	copy(tokens, stream)
	return eng.reduce(tokens, 0)
}

func (eng *Engine) maxDepth() int {
	if eng.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return eng.MaxDepth
}

// reduce rewrites stream in place until one token is left. depth is the
// number of enclosing reductions.
func (eng *Engine) reduce(stream []syntax.Token, depth int) (syntax.Token, error) {
	if depth > eng.maxDepth() {
		return syntax.Token{}, newError(fmt.Sprintf("nesting depth exceeds %d", eng.maxDepth()), ErrTooDeep)
	}

	rules := eng.Rules.Rules()
	for len(stream) > 1 {
		matched := false
		for _, r := range rules {
			pos, span, ok := FindMatch(r.Pattern, stream)
			if !ok {
				continue
			}

			var err error
			stream, err = eng.rewrite(stream, pos, len(span), r, depth)
			if err != nil {
				return syntax.Token{}, err
			}
			matched = true
			break
		}

		if !matched {
			err := newError(fmt.Sprintf("cannot reduce {{%s}}", syntax.Stream(stream)), ErrNoRuleMatched)
			err.residual = stream
			return syntax.Token{}, err
		}
	}

	if len(stream) == 0 {
		return syntax.Zero(), nil
	}
	return stream[0], nil
}

// rewrite evaluates the span of the given length at start and returns a new
// stream with the span replaced by the evaluator's output.
func (eng *Engine) rewrite(stream []syntax.Token, start, length int, r Rule, depth int) ([]syntax.Token, error) {
	span := make([]syntax.Token, length)
	copy(span, stream[start:start+length])

	replacement, err := eng.evaluate(r, span, depth)
	if err != nil {
		var redErr Error
		if errors.As(err, &redErr) {
			return nil, err
		}
		return nil, newError(r.Name, err)
	}

	out := make([]syntax.Token, 0, len(stream)-length+len(replacement))
	out = append(out, stream[:start]...)
	out = append(out, replacement...)
	out = append(out, stream[start+length:]...)
	return out, nil
}

// evaluate dispatches the span to the evaluator the rule's step selects.
// Built-in steps are a closed set; only StepCall resolves anything by name.
func (eng *Engine) evaluate(r Rule, span []syntax.Token, depth int) ([]syntax.Token, error) {
	switch r.Step {
	case StepCall:
		return eng.call(r.Func, span)
	case StepApply:
		return eng.apply(span)
	case StepNegate:
		return negate(span)
	case StepPowNegate:
		return powNegate(span)
	case StepMulNegate:
		return mulNegate(span)
	case StepPercentage:
		return percentage(span)
	case StepExpandRange:
		return expandRange(span)
	case StepIf:
		return ifThenElse(span)
	case StepRound:
		return eng.round(span, depth)
	case StepRoundInt:
		return eng.roundInt(span, depth)
	case StepNot:
		return eng.not(span, depth)
	case StepGroup:
		return eng.group(span, depth)
	default:
		return nil, fmt.Errorf("%w: rule %q has unknown step %s", ErrMalformedSpan, r.Name, r.Step)
	}
}
