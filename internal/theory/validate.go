package theory

import "fmt"

// Validation error codes.
const (
	ErrUnknownSort      = "T100" // sort not declared in signature
	ErrUnknownRelation  = "T101" // relation not declared in signature
	ErrArityMismatch    = "T102" // atom argument count != relation arity
	ErrUnboundVariable  = "T103" // atom references undeclared variable
	ErrSortMismatch     = "T104" // variable sort disagrees with arity position
	ErrDuplicateVar     = "T105" // variable declared twice in one ED
	ErrEqualitySortSkew = "T106" // equality atom over differently sorted variables
)

// ValidateError describes one structural defect in a theory.
type ValidateError struct {
	Axiom   string `json:"axiom"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidateError) Error() string {
	if e.Axiom != "" {
		return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.Axiom, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a theory structurally and returns all defects found (it
// does not fail fast). The chase itself never runs this: constructors stay
// permissive and malformed theories degrade to non-matching triggers. Run it
// from tooling (the CLI compile command does) when up-front errors are
// preferable.
func Validate(th RegularTheory) []ValidateError {
	var errs []ValidateError

	for _, rel := range th.Sig.Relations {
		for i, sort := range rel.Arity {
			if !th.Sig.HasSort(sort) {
				errs = append(errs, ValidateError{
					Field:   fmt.Sprintf("relation %s arity[%d]", rel.Name, i),
					Message: fmt.Sprintf("unknown sort %q", sort),
					Code:    ErrUnknownSort,
				})
			}
		}
	}

	names := th.AxiomNames()
	for i, ed := range th.Axioms {
		errs = append(errs, validateED(th, names[i], ed)...)
	}
	return errs
}

func validateED(th RegularTheory, name string, ed ED) []ValidateError {
	var errs []ValidateError

	seen := make(map[string]bool, len(ed.Forall)+len(ed.Exists))
	declare := func(v Var, field string) {
		if seen[v.Name] {
			errs = append(errs, ValidateError{
				Axiom:   name,
				Field:   field,
				Message: fmt.Sprintf("variable %q declared twice", v.Name),
				Code:    ErrDuplicateVar,
			})
		}
		seen[v.Name] = true
		if !th.Sig.HasSort(v.Sort) {
			errs = append(errs, ValidateError{
				Axiom:   name,
				Field:   field,
				Message: fmt.Sprintf("variable %q has unknown sort %q", v.Name, v.Sort),
				Code:    ErrUnknownSort,
			})
		}
	}
	for _, v := range ed.Forall {
		declare(v, "forall")
	}
	for _, v := range ed.Exists {
		declare(v, "exists")
	}

	errs = append(errs, validateAtoms(th, name, ed, ed.LHS, "lhs")...)
	errs = append(errs, validateAtoms(th, name, ed, ed.RHS, "rhs")...)
	return errs
}

func validateAtoms(th RegularTheory, name string, ed ED, atoms []Atom, field string) []ValidateError {
	var errs []ValidateError
	for _, a := range atoms {
		switch at := a.(type) {
		case RelAtom:
			rel, ok := th.Sig.Relation(at.Rel)
			if !ok {
				errs = append(errs, ValidateError{
					Axiom:   name,
					Field:   field,
					Message: fmt.Sprintf("unknown relation %q", at.Rel),
					Code:    ErrUnknownRelation,
				})
				continue
			}
			if len(at.Args) != len(rel.Arity) {
				errs = append(errs, ValidateError{
					Axiom:   name,
					Field:   field,
					Message: fmt.Sprintf("%s expects %d arguments, got %d", at.Rel, len(rel.Arity), len(at.Args)),
					Code:    ErrArityMismatch,
				})
				continue
			}
			for i, arg := range at.Args {
				sort, ok := ed.VarSort(arg)
				if !ok {
					errs = append(errs, ValidateError{
						Axiom:   name,
						Field:   field,
						Message: fmt.Sprintf("%s argument %d references unbound variable %q", at.Rel, i, arg),
						Code:    ErrUnboundVariable,
					})
					continue
				}
				if sort != rel.Arity[i] {
					errs = append(errs, ValidateError{
						Axiom:   name,
						Field:   field,
						Message: fmt.Sprintf("%s argument %d is %s, arity requires %s", at.Rel, i, sort, rel.Arity[i]),
						Code:    ErrSortMismatch,
					})
				}
			}
		case EqAtom:
			ls, lok := ed.VarSort(at.L)
			rs, rok := ed.VarSort(at.R)
			if !lok {
				errs = append(errs, ValidateError{
					Axiom:   name,
					Field:   field,
					Message: fmt.Sprintf("equality references unbound variable %q", at.L),
					Code:    ErrUnboundVariable,
				})
			}
			if !rok {
				errs = append(errs, ValidateError{
					Axiom:   name,
					Field:   field,
					Message: fmt.Sprintf("equality references unbound variable %q", at.R),
					Code:    ErrUnboundVariable,
				})
			}
			if lok && rok && ls != rs {
				// The engine drops these silently at chase time; flag loudly here.
				errs = append(errs, ValidateError{
					Axiom:   name,
					Field:   field,
					Message: fmt.Sprintf("equality %s = %s mixes sorts %s and %s", at.L, at.R, ls, rs),
					Code:    ErrEqualitySortSkew,
				})
			}
		}
	}
	return errs
}
