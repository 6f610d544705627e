package calcfile

import (
	"fmt"
	"strings"

	"github.com/dekarrin/tunacalc/internal/starfunc"
	"github.com/dekarrin/tunacalc/lex"
	"github.com/dekarrin/tunacalc/syntax"
)

// parseBundle checks the combined unmarshaled data and converts it to a
// Bundle, compiling every function script.
func parseBundle(tqc topLevelData) (Bundle, error) {
	if tqc.Calc.MaxDepth < 0 {
		return Bundle{}, fmt.Errorf("calc: max_depth cannot be negative")
	}

	b := Bundle{
		MaxDepth:  tqc.Calc.MaxDepth,
		Vars:      make([]Var, 0, len(tqc.Vars)),
		Functions: make([]syntax.Func, 0, len(tqc.Functions)),
	}

	seenVars := map[string]bool{}
	for i, v := range tqc.Vars {
		name := lex.Fold(strings.TrimSpace(v.Name))
		if name == "" {
			return Bundle{}, fmt.Errorf("var #%d: name is empty", i+1)
		}
		if seenVars[name] {
			return Bundle{}, fmt.Errorf("var %q: defined more than once", v.Name)
		}
		seenVars[name] = true

		val, err := parseValue(v.Value)
		if err != nil {
			return Bundle{}, fmt.Errorf("var %q: %w", v.Name, err)
		}
		b.Vars = append(b.Vars, Var{Name: name, Value: val})
	}

	seenFuncs := map[string]bool{}
	for i, f := range tqc.Functions {
		fn, err := parseFunction(f)
		if err != nil {
			if f.Name == "" {
				return Bundle{}, fmt.Errorf("function #%d: %w", i+1, err)
			}
			return Bundle{}, fmt.Errorf("function %q: %w", f.Name, err)
		}
		if seenFuncs[fn.Name] {
			return Bundle{}, fmt.Errorf("function %q: defined more than once", f.Name)
		}
		seenFuncs[fn.Name] = true
		b.Functions = append(b.Functions, fn)
	}

	return b, nil
}

func parseValue(v any) (any, error) {
	switch v.(type) {
	case nil:
		return nil, fmt.Errorf("'value' must be set")
	case bool, string:
		return v, nil
	case int64, float64:
		return syntax.ToDecimal(v)
	default:
		return nil, fmt.Errorf("'value' must be a number, bool, or string, not a %T", v)
	}
}

func parseFunction(f function) (syntax.Func, error) {
	name := lex.Fold(strings.TrimSpace(f.Name))
	if name == "" {
		return syntax.Func{}, fmt.Errorf("name is empty")
	}

	returns, err := syntax.ParseCategory(f.Returns)
	if err != nil {
		return syntax.Func{}, fmt.Errorf("returns: %w", err)
	}

	sig := make([]syntax.Category, len(f.Params))
	for i := range f.Params {
		sig[i], err = syntax.ParseCategory(f.Params[i])
		if err != nil {
			return syntax.Func{}, fmt.Errorf("params[%d]: %w", i, err)
		}
	}

	if strings.TrimSpace(f.Script) == "" {
		return syntax.Func{}, fmt.Errorf("script is empty")
	}

	entry := f.Entry
	if entry == "" {
		entry = f.Name
	}

	body, err := starfunc.Compile(f.source, f.Script, entry)
	if err != nil {
		return syntax.Func{}, err
	}

	fn := syntax.Func{
		Name:      name,
		Returns:   returns,
		Signature: sig,
		Body:      body,
	}
	return fn, fn.Validate()
}
