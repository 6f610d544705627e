// Package tunacalc evaluates calculator expressions by lexing them into token
// streams and reducing the streams with the rules of the grammar package. It
// also contains an interactive Shell for running a Calculator from a console.
package tunacalc

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dekarrin/tunacalc/binop"
	"github.com/dekarrin/tunacalc/grammar"
	"github.com/dekarrin/tunacalc/internal/calcfile"
	"github.com/dekarrin/tunacalc/internal/util"
	"github.com/dekarrin/tunacalc/lex"
	"github.com/dekarrin/tunacalc/reduce"
	"github.com/dekarrin/tunacalc/syntax"
)

var (
	ErrUnboundVariable   = errors.New("unbound variable")
	ErrCircularReference = errors.New("circular reference")
	ErrInvalidName       = errors.New("not a valid variable name")
	ErrNoValue           = errors.New("expression did not produce a value")
)

// UnboundVariableError is returned when an expression refers to variables that
// have no value. It gives every such variable, not just the first one.
type UnboundVariableError struct {
	Names []string
}

func (e UnboundVariableError) Error() string {
	noun := "variable"
	if len(e.Names) != 1 {
		noun = "variables"
	}
	return fmt.Sprintf("no value for %s %s", noun, util.TextList(e.Names))
}

// Is returns whether target is ErrUnboundVariable.
func (e UnboundVariableError) Is(target error) bool {
	return target == ErrUnboundVariable
}

// Calculator evaluates expressions against a memory of stored variables and a
// set of registered functions. Create one with New.
//
// Evaluate, EvaluateToken, Dependencies, and Solve may be called concurrently
// with each other and with the methods that change memory or functions.
type Calculator struct {
	rules *grammar.Table
	ops   binop.Table

	mtx      sync.RWMutex
	memory   map[string]syntax.Token
	maxDepth int
}

// New returns a Calculator with empty memory, the built-in functions, and the
// standard operations.
func New() *Calculator {
	return &Calculator{
		rules:  grammar.New(),
		ops:    binop.Standard(),
		memory: map[string]syntax.Token{},
	}
}

// Evaluate evaluates expr and returns the raw value of the result: a
// decimal.Decimal, a bool, or a string. Variables in vars take precedence over
// those in memory and do not change memory.
func (c *Calculator) Evaluate(expr string, vars map[string]any) (any, error) {
	tok, err := c.EvaluateToken(expr, vars)
	if err != nil {
		return nil, err
	}
	return tok.Value, nil
}

// EvaluateToken is like Evaluate but returns the result token, so the category
// of the result is known.
func (c *Calculator) EvaluateToken(expr string, vars map[string]any) (syntax.Token, error) {
	tokens, err := lex.Lex(expr)
	if err != nil {
		return syntax.Token{}, err
	}

	bound, err := bindAll(vars)
	if err != nil {
		return syntax.Token{}, err
	}

	return c.evaluateTokens(tokens, bound)
}

func (c *Calculator) evaluateTokens(tokens []syntax.Token, vars map[string]syntax.Token) (syntax.Token, error) {
	c.mtx.RLock()
	maxDepth := c.maxDepth
	var unbound util.OrderedSet
	for i := range tokens {
		switch tokens[i].Category {
		case syntax.Function:
			name, _ := tokens[i].Value.(string)
			if grammar.IsReserved(name) {
				continue
			}
			if _, ok := c.rules.Function(name); !ok {
				c.mtx.RUnlock()
				return syntax.Token{}, fmt.Errorf("%w: %s", reduce.ErrUnknownFunction, name)
			}
		case syntax.Identifier:
			name, _ := tokens[i].Value.(string)
			if v, ok := vars[name]; ok {
				tokens[i] = v
			} else if v, ok := c.memory[name]; ok {
				tokens[i] = v
			} else {
				unbound.Add(name)
			}
		}
	}
	c.mtx.RUnlock()

	if unbound.Len() > 0 {
		return syntax.Token{}, UnboundVariableError{Names: unbound.Elements()}
	}

	eng := reduce.New(c.rules, c.ops)
	eng.MaxDepth = maxDepth

	result, err := eng.Evaluate(tokens)
	if err != nil {
		return syntax.Token{}, err
	}
	if !result.Category.IsValue() {
		return syntax.Token{}, fmt.Errorf("%w: reduced to %s %s", ErrNoValue, result.Category, result)
	}
	return result, nil
}

// MaxDepth returns how deeply function calls and groups may nest. 0 means
// reduce.DefaultMaxDepth.
func (c *Calculator) MaxDepth() int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.maxDepth
}

// SetMaxDepth sets the nesting limit used by later evaluations.
func (c *Calculator) SetMaxDepth(depth int) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.maxDepth = depth
}

// Store binds name to value in memory. value may be a bool, a string, any Go
// numeric type, a decimal.Decimal, or a syntax.Token holding a value.
func (c *Calculator) Store(name string, value any) error {
	return c.StoreAll(map[string]any{name: value})
}

// StoreAll binds every variable in vars. If any of them cannot be stored,
// memory is left unchanged.
func (c *Calculator) StoreAll(vars map[string]any) error {
	bound, err := bindAll(vars)
	if err != nil {
		return err
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()
	for name, tok := range bound {
		c.memory[name] = tok
	}
	return nil
}

// Forget removes name from memory. It returns whether it was there.
func (c *Calculator) Forget(name string) bool {
	name = lex.Fold(name)

	c.mtx.Lock()
	defer c.mtx.Unlock()

	_, ok := c.memory[name]
	delete(c.memory, name)
	return ok
}

// Clear removes every variable from memory.
func (c *Calculator) Clear() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.memory = map[string]syntax.Token{}
}

// Memory returns a copy of the variables in memory as their raw values.
func (c *Calculator) Memory() map[string]any {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	mem := make(map[string]any, len(c.memory))
	for name, tok := range c.memory {
		mem[name] = tok.Value
	}
	return mem
}

// Dependencies returns the variables expr refers to that are not in memory,
// in the order they first appear.
func (c *Calculator) Dependencies(expr string) ([]string, error) {
	tokens, err := lex.Lex(expr)
	if err != nil {
		return nil, err
	}

	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.unboundIdentifiers(tokens).Elements(), nil
}

func (c *Calculator) unboundIdentifiers(tokens []syntax.Token) *util.OrderedSet {
	deps := &util.OrderedSet{}
	for _, name := range identifiers(tokens).Elements() {
		if _, ok := c.memory[name]; !ok {
			deps.Add(name)
		}
	}
	return deps
}

// identifiers gives the name of every Identifier token in order of first
// appearance.
func identifiers(tokens []syntax.Token) *util.OrderedSet {
	names := &util.OrderedSet{}
	for _, t := range tokens {
		if t.Category == syntax.Identifier {
			name, _ := t.Value.(string)
			names.Add(name)
		}
	}
	return names
}

// Solve evaluates every expression in exprs, each of which may refer to the
// others by name, and returns the value of each. Expressions are evaluated in
// dependency order. A name given in exprs hides the same name in memory.
// Memory is not changed.
func (c *Calculator) Solve(exprs map[string]string) (map[string]any, error) {
	parsed := make(map[string][]syntax.Token, len(exprs))
	for name, expr := range exprs {
		folded := lex.Fold(name)
		if _, dup := parsed[folded]; dup {
			return nil, fmt.Errorf("%q: given more than once", name)
		}
		tokens, err := lex.Lex(expr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		parsed[folded] = tokens
	}

	names := make([]string, 0, len(parsed))
	for name := range parsed {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string][]string, len(parsed))
	var unbound util.OrderedSet
	c.mtx.RLock()
	for _, name := range names {
		for _, dep := range identifiers(parsed[name]).Elements() {
			if _, ok := parsed[dep]; ok {
				deps[name] = append(deps[name], dep)
			} else if _, ok := c.memory[dep]; !ok {
				unbound.Add(dep)
			}
		}
	}
	c.mtx.RUnlock()

	if unbound.Len() > 0 {
		return nil, UnboundVariableError{Names: unbound.Elements()}
	}

	order, err := solveOrder(names, deps)
	if err != nil {
		return nil, err
	}

	solved := make(map[string]syntax.Token, len(order))
	results := make(map[string]any, len(order))
	for _, name := range order {
		tok, err := c.evaluateTokens(parsed[name], solved)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		solved[name] = tok
		results[name] = tok.Value
	}
	return results, nil
}

// solveOrder sorts names so that each comes after everything it depends on.
func solveOrder(names []string, deps map[string][]string) ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)

	state := make(map[string]int, len(names))
	order := make([]string, 0, len(names))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			cycle := append(path, name)
			start := 0
			for i := range cycle {
				if cycle[i] == name {
					start = i
					break
				}
			}
			return fmt.Errorf("%w: %s", ErrCircularReference, strings.Join(cycle[start:], " -> "))
		}

		state[name] = visiting
		for _, dep := range deps[name] {
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// AddFunction registers fn so that expressions can call it. Its name is
// case-folded. A function with the same name replaces the old one; the
// built-in functions cannot be replaced.
func (c *Calculator) AddFunction(fn syntax.Func) error {
	fn.Name = lex.Fold(fn.Name)
	return c.rules.AddFunction(fn)
}

// Functions returns the registered functions, most recently added first.
func (c *Calculator) Functions() []syntax.Func {
	return c.rules.Functions()
}

// LoadFile applies the calculator definition in the TQC file at path: its
// settings, its variables, and its functions.
func (c *Calculator) LoadFile(path string) error {
	bundle, err := calcfile.Load(path)
	if err != nil {
		return err
	}

	vars := make(map[string]any, len(bundle.Vars))
	for _, v := range bundle.Vars {
		vars[v.Name] = v.Value
	}
	if err := c.StoreAll(vars); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for _, fn := range bundle.Functions {
		if err := c.AddFunction(fn); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	if bundle.MaxDepth > 0 {
		c.SetMaxDepth(bundle.MaxDepth)
	}
	return nil
}

// bindAll folds and checks every name in vars and converts every value to a
// token.
func bindAll(vars map[string]any) (map[string]syntax.Token, error) {
	bound := make(map[string]syntax.Token, len(vars))
	for name, v := range vars {
		folded, err := checkName(name)
		if err != nil {
			return nil, err
		}
		tok, err := syntax.ValueOf(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		bound[folded] = tok
	}
	return bound, nil
}

// checkName returns the folded form of name if an expression could refer to
// it.
func checkName(name string) (string, error) {
	tokens, err := lex.Lex(name)
	if err != nil || len(tokens) != 1 || tokens[0].Category != syntax.Identifier {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return tokens[0].Value.(string), nil
}
