// Package expr parses and evaluates best-response formulas.
//
// A formula is a one-variable arithmetic expression such as "(100 - q2)/2".
// It is tokenized and checked against a whitelist of identifiers, translated
// to a Lua expression and compiled once into a sandboxed gopher-lua VM.
// Evaluation binds the variable and runs the compiled chunk.
package expr

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

var (
	// ErrParse is returned for malformed text or disallowed symbols.
	ErrParse = errors.New("parse error")
	// ErrEval is returned when a compiled expression fails at runtime.
	ErrEval = errors.New("evaluation error")
)

// Expression is a compiled one-variable formula.
type Expression interface {
	// Text returns the source text as submitted.
	Text() string
	// Variable returns the name of the single free variable.
	Variable() string
	// Eval substitutes value for the variable and evaluates numerically.
	Eval(value float64) (float64, error)
	// Close releases the underlying VM.
	Close()
}

// functions are the math helpers a formula may call.
var functions = []string{
	"sqrt", "exp", "log", "abs", "min", "max", "floor", "ceil", "sin", "cos",
}

// constants are the named values a formula may reference.
var constants = map[string]float64{
	"pi": math.Pi,
	"E":  math.E,
}

type luaExpr struct {
	mu       sync.Mutex
	text     string
	variable string
	L        *lua.LState
	fn       *lua.LFunction
	closed   bool
}

// Parse compiles text into an Expression over variable. Any identifier
// other than variable, a math helper or a named constant is rejected.
func Parse(text, variable string) (Expression, error) {
	src, err := translate(text, variable)
	if err != nil {
		return nil, err
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)

	fn, err := L.LoadString("return " + src)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %q: %v", ErrParse, text, err)
	}

	e := &luaExpr{text: text, variable: variable, L: L, fn: fn}

	// Probe once so that non-numeric results (a bare function name, say)
	// are reported as parse errors rather than at every evaluation.
	if _, err := e.Eval(1); err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %q: %v", ErrParse, text, err)
	}
	return e, nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(text, variable string) Expression {
	e, err := Parse(text, variable)
	if err != nil {
		panic(err)
	}
	return e
}

// ParseOrDefault is the fallback policy for user input: on any parse error
// the failure is logged and the default formula is compiled instead. It
// never reports an error; if the default itself is invalid the result is nil,
// which Evaluate treats as an undefined expression.
func ParseOrDefault(text, variable, defaultText string, logger *slog.Logger) Expression {
	if logger == nil {
		logger = slog.Default()
	}
	e, err := Parse(text, variable)
	if err == nil {
		return e
	}
	logger.Warn("best response rejected, using default",
		"text", text, "variable", variable, "default", defaultText, "err", err)

	e, err = Parse(defaultText, variable)
	if err != nil {
		logger.Error("default best response invalid", "text", defaultText, "err", err)
		return nil
	}
	return e
}

// Evaluate returns 0 when e is nil and NaN when evaluation fails. The value
// is not range-checked; callers filter what they cannot plot.
func Evaluate(e Expression, value float64) float64 {
	if e == nil {
		return 0
	}
	v, err := e.Eval(value)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (e *luaExpr) Text() string     { return e.text }
func (e *luaExpr) Variable() string { return e.variable }

func (e *luaExpr) Eval(value float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0, fmt.Errorf("%w: expression closed", ErrEval)
	}

	e.L.SetGlobal(e.variable, lua.LNumber(value))
	if err := e.L.CallByParam(lua.P{Fn: e.fn, NRet: 1, Protect: true}); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEval, err)
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("%w: result is %s, not a number", ErrEval, ret.Type())
	}
	return float64(n), nil
}

func (e *luaExpr) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.L.Close()
		e.closed = true
	}
}

// openSafeLibs opens the math library and exposes the whitelisted helpers
// and constants as globals.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenMath(L)

	mathTbl, ok := L.GetGlobal("math").(*lua.LTable)
	if !ok {
		return
	}
	for _, name := range functions {
		L.SetGlobal(name, mathTbl.RawGetString(name))
	}
	for name, v := range constants {
		L.SetGlobal(name, lua.LNumber(v))
	}
}

// sandbox removes globals that could reach outside the VM.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring", "require",
		"rawset", "rawget", "rawequal", "setfenv", "getfenv",
		"collectgarbage", "print",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
}

// allowed reports whether ident may appear in a formula over variable.
func allowed(ident, variable string) bool {
	if ident == variable {
		return true
	}
	if _, ok := constants[ident]; ok {
		return true
	}
	for _, f := range functions {
		if ident == f {
			return true
		}
	}
	return false
}
