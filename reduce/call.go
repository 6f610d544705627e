package reduce

import (
	"fmt"

	"github.com/dekarrin/tunacalc/syntax"
)

// call invokes a user function on a matched call span. The function receives
// the raw values of every token between the parens that is not a comma or a
// grouping token, and its result is wrapped in a token of the function's
// declared return category.
func (eng *Engine) call(name string, span []syntax.Token) ([]syntax.Token, error) {
	fn, ok := eng.Rules.Function(name)
	if !ok {
		return nil, newError(fmt.Sprintf("%q", name), ErrUnknownFunction)
	}

	tokens, err := inner(name, span)
	if err != nil {
		return nil, err
	}

	var args []any
	for _, t := range tokens {
		if t.Category == syntax.Comma || t.Category == syntax.Grouping {
			continue
		}
		args = append(args, t.Value)
	}

	val, err := fn.Body(args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	result, err := syntax.TokenOf(fn.Returns, val)
	if err != nil {
		return nil, fmt.Errorf("%s: result: %w", name, err)
	}
	return one(result), nil
}
