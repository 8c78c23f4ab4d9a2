package decl

import "sleuth/internal/types"

// Builtin is an environment pseudo-variable like msg.sender or this.
type Builtin struct {
	Name string
	Type types.Type
}

func (b *Builtin) SymbolName() string { return b.Name }
func (b *Builtin) String() string     { return b.Name }

// BuiltinFunction is an environment pseudo-function identified by its full
// signature name, e.g. "balance(address)" or "caller()".
type BuiltinFunction struct {
	Name       string
	ReturnType types.Type
}

func (b *BuiltinFunction) SymbolName() string { return b.Name }
func (b *BuiltinFunction) String() string     { return b.Name }

var builtinVariables = map[string]*Builtin{
	"msg.sender": {Name: "msg.sender", Type: types.Elem("address")},
	"msg.value":  {Name: "msg.value", Type: types.Elem("uint256")},
	"tx.origin":  {Name: "tx.origin", Type: types.Elem("address")},
	"this":       {Name: "this", Type: types.Elem("address")},

	// Namespace pseudo-variables: member bases for accesses that are not
	// one of the fixed qualified names above, e.g. abi.decode.
	"msg":   {Name: "msg"},
	"tx":    {Name: "tx"},
	"block": {Name: "block"},
	"abi":   {Name: "abi"},
}

var builtinFunctions = map[string]*BuiltinFunction{
	"type()":               {Name: "type()"},
	"caller()":             {Name: "caller()", ReturnType: types.Elem("uint256")},
	"origin()":             {Name: "origin()", ReturnType: types.Elem("uint256")},
	"extcodesize(uint256)": {Name: "extcodesize(uint256)", ReturnType: types.Elem("uint256")},
	"selfbalance()":        {Name: "selfbalance()", ReturnType: types.Elem("uint256")},
	"address()":            {Name: "address()", ReturnType: types.Elem("address")},
	"callvalue()":          {Name: "callvalue()", ReturnType: types.Elem("uint256")},
	"balance(address)":     {Name: "balance(address)", ReturnType: types.Elem("uint256")},
	"code(address)":        {Name: "code(address)", ReturnType: types.Elem("bytes")},
	"codehash(address)":    {Name: "codehash(address)", ReturnType: types.Elem("bytes32")},
}

// BuiltinVariable returns the pseudo-variable for a fixed name, or nil.
func BuiltinVariable(name string) *Builtin {
	return builtinVariables[name]
}

// BuiltinFunc returns the pseudo-function for a fixed signature name, or nil.
func BuiltinFunc(name string) *BuiltinFunction {
	return builtinFunctions[name]
}
