package grammar

import (
	"fmt"
	"sync"

	"github.com/dekarrin/tunacalc/reduce"
	"github.com/dekarrin/tunacalc/syntax"
)

// Reserved holds the names of functions the core rules implement. They cannot
// be registered as user functions.
var Reserved = []string{"if", "round", "roundup", "rounddown", "not"}

// Table is a reduce.RuleTable made of the core rules plus any registered user
// functions. User function rules come before the core rules, most recently
// added first. A Table is safe for concurrent use.
type Table struct {
	mtx   sync.RWMutex
	core  []reduce.Rule
	user  []reduce.Rule
	funcs map[string]syntax.Func
}

// New returns a Table holding only the core rules.
func New() *Table {
	return &Table{
		core:  CoreRules(),
		funcs: map[string]syntax.Func{},
	}
}

// CoreRules returns the built-in rules in priority order.
func CoreRules() []reduce.Rule {
	p := func(ms ...*TokenMatcher) reduce.Pattern {
		pat := make(reduce.Pattern, len(ms))
		for i := range ms {
			pat[i] = ms[i]
		}
		return pat
	}

	return []reduce.Rule{
		{Name: "if", Step: reduce.StepIf, Pattern: p(Func("if"), FuncOpen(), NonGroup(), Comma(), NonGroup(), Comma(), NonGroup(), Close())},
		{Name: "round_one", Step: reduce.StepRound, Pattern: p(Func("round"), FuncOpen(), NonGroupStar(), Close())},
		{Name: "round_two", Step: reduce.StepRound, Pattern: p(Func("round"), FuncOpen(), NonGroupStar(), Comma(), Numeric(), Close())},
		{Name: "roundup", Step: reduce.StepRoundInt, Pattern: p(Func("roundup"), FuncOpen(), NonGroupPlus(), Close())},
		{Name: "rounddown", Step: reduce.StepRoundInt, Pattern: p(Func("rounddown"), FuncOpen(), NonGroupPlus(), Close())},
		{Name: "not", Step: reduce.StepNot, Pattern: p(Func("not"), FuncOpen(), NonGroupPlus(), Close())},
		{Name: "group", Step: reduce.StepGroup, Pattern: p(Open(), NonGroupStar(), Close())},
		{Name: "start_neg", Step: reduce.StepNegate, Pattern: p(AnchoredMinus(), Numeric())},
		{Name: "math_pow", Step: reduce.StepApply, Pattern: p(Numeric(), Pow(), Numeric())},
		{Name: "math_neg_pow", Step: reduce.StepPowNegate, Pattern: p(Numeric(), Pow(), Subtract(), Numeric())},
		{Name: "math_mod", Step: reduce.StepApply, Pattern: p(Numeric(), Mod(), Numeric())},
		{Name: "percentage", Step: reduce.StepPercentage, Pattern: p(Numeric(), Mod())},
		{Name: "math_mul", Step: reduce.StepApply, Pattern: p(Numeric(), MulDiv(), Numeric())},
		{Name: "math_neg_mul", Step: reduce.StepMulNegate, Pattern: p(Numeric(), MulDiv(), Subtract(), Numeric())},
		{Name: "math_add", Step: reduce.StepApply, Pattern: p(Numeric(), AddSub(), Numeric())},
		{Name: "negation", Step: reduce.StepNegate, Pattern: p(Subtract(), Numeric())},
		{Name: "range_asc", Step: reduce.StepExpandRange, Pattern: p(Numeric(), CompLT(), Numeric(), CompLT(), Numeric())},
		{Name: "range_desc", Step: reduce.StepExpandRange, Pattern: p(Numeric(), CompGT(), Numeric(), CompGT(), Numeric())},
		{Name: "num_comp", Step: reduce.StepApply, Pattern: p(Numeric(), Comparator(), Numeric())},
		{Name: "str_comp", Step: reduce.StepApply, Pattern: p(String(), Comparator(), String())},
		{Name: "logical_comp", Step: reduce.StepApply, Pattern: p(Logical(), Equality(), Logical())},
		{Name: "combine", Step: reduce.StepApply, Pattern: p(Logical(), Combinator(), Logical())},
	}
}

// FunctionRule builds the rule that calls fn: its name, an open paren, its
// parameters separated by commas, and a close paren.
func FunctionRule(fn syntax.Func) reduce.Rule {
	pat := reduce.Pattern{Func(fn.Name), FuncOpen()}
	for _, cat := range fn.Shape() {
		pat = append(pat, ForCategory(cat))
	}
	pat = append(pat, Close())

	return reduce.Rule{
		Name:    fn.Name,
		Pattern: pat,
		Step:    reduce.StepCall,
		Func:    fn.Name,
	}
}

// IsReserved returns whether name is implemented by a core rule.
func IsReserved(name string) bool {
	for _, r := range Reserved {
		if r == name {
			return true
		}
	}
	return false
}

// AddFunction registers fn and puts its rule ahead of every other rule. A
// function already registered under the same name is replaced.
func (tab *Table) AddFunction(fn syntax.Func) error {
	if err := fn.Validate(); err != nil {
		return err
	}
	if IsReserved(fn.Name) {
		return fmt.Errorf("%w: %q is a built-in function", syntax.ErrInvalidFunc, fn.Name)
	}

	tab.mtx.Lock()
	defer tab.mtx.Unlock()

	if tab.funcs == nil {
		tab.funcs = map[string]syntax.Func{}
	}

	user := make([]reduce.Rule, 0, len(tab.user)+1)
	user = append(user, FunctionRule(fn))
	for _, r := range tab.user {
		if r.Func != fn.Name {
			user = append(user, r)
		}
	}
	tab.user = user
	tab.funcs[fn.Name] = fn
	return nil
}

// Rules returns the user function rules followed by the core rules.
func (tab *Table) Rules() []reduce.Rule {
	tab.mtx.RLock()
	defer tab.mtx.RUnlock()

	core := tab.core
	if core == nil {
		core = CoreRules()
	}

	all := make([]reduce.Rule, 0, len(tab.user)+len(core))
	all = append(all, tab.user...)
	all = append(all, core...)
	return all
}

// Function returns the registered user function with the given name.
func (tab *Table) Function(name string) (syntax.Func, bool) {
	tab.mtx.RLock()
	defer tab.mtx.RUnlock()

	fn, ok := tab.funcs[name]
	return fn, ok
}

// Functions returns every registered user function, most recently added
// first.
func (tab *Table) Functions() []syntax.Func {
	tab.mtx.RLock()
	defer tab.mtx.RUnlock()

	fns := make([]syntax.Func, 0, len(tab.user))
	for _, r := range tab.user {
		fns = append(fns, tab.funcs[r.Func])
	}
	return fns
}
