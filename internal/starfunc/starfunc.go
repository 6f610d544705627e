// Package starfunc builds calculator function bodies from Starlark scripts.
package starfunc

import (
	"errors"
	"fmt"

	"github.com/dekarrin/tunacalc/syntax"
	"github.com/shopspring/decimal"
	starlarkmath "go.starlark.net/lib/math"
	"go.starlark.net/starlark"
	starsyntax "go.starlark.net/syntax"
)

// MaxSteps is the most Starlark execution steps a single function call may
// take before it is cancelled.
const MaxSteps = 1_000_000

var (
	ErrNotCallable   = errors.New("entry point is not a callable")
	ErrUnconvertible = errors.New("value has no calculator equivalent")
)

// predeclared is made available to every script.
var predeclared = starlark.StringDict{
	"math": starlarkmath.Module,
}

// Compile parses and initializes script once and returns a function body that
// calls the global named entry with the call's arguments. filename is only
// used in error messages.
//
// The script's globals are frozen after initialization, so the returned body
// may be called from multiple goroutines.
func Compile(filename, script, entry string) (syntax.FuncBody, error) {
	opts := &starsyntax.FileOptions{}
	f, err := opts.Parse(filename, script, 0)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	prog, err := starlark.FileProgram(f, predeclared.Has)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", filename, err)
	}

	initThread := &starlark.Thread{Name: "init " + filename}
	initThread.SetMaxExecutionSteps(MaxSteps)
	globals, err := prog.Init(initThread, predeclared)
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", filename, err)
	}
	globals.Freeze()

	val, ok := globals[entry]
	if !ok {
		return nil, fmt.Errorf("%s: no global named %q", filename, entry)
	}
	fn, ok := val.(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %q is a %s", ErrNotCallable, filename, entry, val.Type())
	}

	return func(args ...any) (any, error) {
		sArgs := make(starlark.Tuple, len(args))
		for i := range args {
			sArgs[i], err = toStarlark(args[i])
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i+1, err)
			}
		}

		thread := &starlark.Thread{Name: entry}
		thread.SetMaxExecutionSteps(MaxSteps)

		result, err := starlark.Call(thread, fn, sArgs, nil)
		if err != nil {
			return nil, err
		}
		return fromStarlark(result)
	}, nil
}

func toStarlark(v any) (starlark.Value, error) {
	switch tv := v.(type) {
	case nil:
		return starlark.None, nil
	case decimal.Decimal:
		if tv.IsInteger() {
			return starlark.MakeBigInt(tv.BigInt()), nil
		}
		return starlark.Float(tv.InexactFloat64()), nil
	case bool:
		return starlark.Bool(tv), nil
	case string:
		return starlark.String(tv), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnconvertible, v)
	}
}

func fromStarlark(v starlark.Value) (any, error) {
	switch tv := v.(type) {
	case starlark.Int:
		return decimal.NewFromBigInt(tv.BigInt(), 0), nil
	case starlark.Float:
		d, err := syntax.ToDecimal(float64(tv))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnconvertible, tv.String())
		}
		return d, nil
	case starlark.Bool:
		return bool(tv), nil
	case starlark.String:
		return string(tv), nil
	default:
		return nil, fmt.Errorf("%w: starlark %s", ErrUnconvertible, v.Type())
	}
}
