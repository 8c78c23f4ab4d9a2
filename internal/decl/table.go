package decl

// Table is a lexically scoped symbol table. Lookups fall through to the
// parent scope; builtins are recognized by their fixed name sets and do
// not occupy scope entries.
type Table struct {
	symbols map[string]Symbol
	parent  *Table
}

func NewTable(parent *Table) *Table {
	return &Table{
		symbols: make(map[string]Symbol),
		parent:  parent,
	}
}

func (t *Table) Define(sym Symbol) Symbol {
	t.symbols[sym.SymbolName()] = sym
	return sym
}

func (t *Table) Lookup(name string) Symbol {
	if sym, exists := t.symbols[name]; exists {
		return sym
	}
	if t.parent != nil {
		return t.parent.Lookup(name)
	}
	return nil
}

func (t *Table) LookupLocal(name string) Symbol {
	if sym, exists := t.symbols[name]; exists {
		return sym
	}
	return nil
}
