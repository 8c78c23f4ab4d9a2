package decl

import (
	"strconv"

	"sleuth/internal/types"
)

// Declarations are the pre-existing entities an expression can reference.
// They are produced upstream (or registered by the snippet binder) and are
// only looked up during lowering, never created by it.

type Symbol interface {
	SymbolName() string
	String() string
}

type VarScope int

const (
	ScopeLocal VarScope = iota
	ScopeState
)

// Variable is a local or state variable. TupleIndex records the declared
// slot when the variable was introduced as one target of a destructuring
// tuple; it is -1 otherwise.
type Variable struct {
	Name       string
	Type       types.Type
	Scope      VarScope
	TupleIndex int
}

func NewLocal(name string, t types.Type) *Variable {
	return &Variable{Name: name, Type: t, Scope: ScopeLocal, TupleIndex: -1}
}

func NewState(name string, t types.Type) *Variable {
	return &Variable{Name: name, Type: t, Scope: ScopeState, TupleIndex: -1}
}

// NewTupleLocal declares a local bound to slot index of a destructuring
// tuple assignment.
func NewTupleLocal(name string, t types.Type, index int) *Variable {
	return &Variable{Name: name, Type: t, Scope: ScopeLocal, TupleIndex: index}
}

func (v *Variable) SymbolName() string { return v.Name }
func (v *Variable) String() string     { return v.Name }

// Function is a user-defined function. Only the declared returns matter to
// the lowering engine: a single return pre-types the destination temporary,
// more than one forces a tuple destination.
type Function struct {
	Name    string
	Returns []types.Type
}

func (f *Function) SymbolName() string { return f.Name }
func (f *Function) String() string     { return f.Name + "()" }

// Contract groups the nested user-defined value types and custom errors
// that member access on a contract symbol can resolve to.
type Contract struct {
	Name   string
	Types  map[string]*types.Alias
	Errors map[string]*CustomError
}

func NewContract(name string) *Contract {
	return &Contract{
		Name:   name,
		Types:  make(map[string]*types.Alias),
		Errors: make(map[string]*CustomError),
	}
}

func (c *Contract) SymbolName() string { return c.Name }
func (c *Contract) String() string     { return c.Name }

type CustomError struct {
	Name string
}

func (e *CustomError) SymbolName() string { return e.Name }
func (e *CustomError) String() string     { return e.Name }

// Enum is a user-defined enumeration; type(E).min/max resolve to its
// first and last member ordinals.
type Enum struct {
	Name    string
	Members []string
}

func (e *Enum) SymbolName() string { return e.Name }
func (e *Enum) String() string     { return e.Name }

func (e *Enum) Min() string { return "0" }

func (e *Enum) Max() string {
	if len(e.Members) == 0 {
		return "0"
	}
	return strconv.Itoa(len(e.Members) - 1)
}
