package theory

import (
	"fmt"
	"strings"
)

// Var is a typed variable in an ED context.
type Var struct {
	Name string `json:"name"`
	Sort string `json:"sort"`
}

// Atom is a sealed interface over the conjuncts of an ED formula.
// Only RelAtom and EqAtom implement it. Sealing enables exhaustive type
// switches in the engine's freezing and matching code.
type Atom interface {
	atom()
}

// RelAtom asserts that the tuple of variables is in the relation.
type RelAtom struct {
	Rel  string   `json:"rel"`
	Args []string `json:"args"`
}

func (RelAtom) atom() {}

// EqAtom asserts that two variables denote the same element.
type EqAtom struct {
	L string `json:"l"`
	R string `json:"r"`
}

func (EqAtom) atom() {}

// ED is an embedded dependency, the unit of theory content:
//
//	forall Forall. LHS  =>  exists Exists. RHS
//
// Unique marks the ED as cartesian: the existential witness is required to
// be unique. Cartesian EDs are what make free-model computation terminate on
// finitely presented cartesian theories.
//
// Name identifies the axiom in logs and the trace store. It carries no
// semantics.
type ED struct {
	Name   string `json:"name"`
	Forall []Var  `json:"forall"`
	LHS    []Atom `json:"lhs"`
	Exists []Var  `json:"exists"`
	RHS    []Atom `json:"rhs"`
	Unique bool   `json:"unique"`
}

// IsEGD reports whether the ED is equality-generating: no existential
// variables and a consequent consisting only of equality atoms. EGDs
// quotient the instance rather than growing it.
func (ed ED) IsEGD() bool {
	if len(ed.Exists) > 0 || len(ed.RHS) == 0 {
		return false
	}
	for _, a := range ed.RHS {
		if _, ok := a.(EqAtom); !ok {
			return false
		}
	}
	return true
}

// IsTGD reports whether the ED is tuple-generating (any ED that is not an
// EGD: it introduces witnesses and/or relation tuples).
func (ed ED) IsTGD() bool {
	return !ed.IsEGD()
}

// HasEmptyFront reports whether the ED has no antecedent at all. Empty-front
// EDs fire exactly once, unconditionally, to seed initially required facts.
func (ed ED) HasEmptyFront() bool {
	return len(ed.Forall) == 0 && len(ed.LHS) == 0
}

// VarSort looks up the sort of a variable across the forall and exists
// contexts.
func (ed ED) VarSort(name string) (string, bool) {
	for _, v := range ed.Forall {
		if v.Name == name {
			return v.Sort, true
		}
	}
	for _, v := range ed.Exists {
		if v.Name == name {
			return v.Sort, true
		}
	}
	return "", false
}

// String renders the ED for logs and error messages.
func (ed ED) String() string {
	var b strings.Builder
	if ed.Name != "" {
		fmt.Fprintf(&b, "%s: ", ed.Name)
	}
	b.WriteString("forall ")
	b.WriteString(varList(ed.Forall))
	b.WriteString(". ")
	b.WriteString(atomList(ed.LHS))
	b.WriteString(" => ")
	if len(ed.Exists) > 0 {
		if ed.Unique {
			b.WriteString("exists! ")
		} else {
			b.WriteString("exists ")
		}
		b.WriteString(varList(ed.Exists))
		b.WriteString(". ")
	}
	b.WriteString(atomList(ed.RHS))
	return b.String()
}

func varList(vars []Var) string {
	if len(vars) == 0 {
		return "()"
	}
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = v.Name + ":" + v.Sort
	}
	return strings.Join(parts, ", ")
}

func atomList(atoms []Atom) string {
	if len(atoms) == 0 {
		return "true"
	}
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		switch at := a.(type) {
		case RelAtom:
			parts[i] = at.Rel + "(" + strings.Join(at.Args, ",") + ")"
		case EqAtom:
			parts[i] = at.L + " = " + at.R
		}
	}
	return strings.Join(parts, " & ")
}
