// Package compiler turns CUE presentation files into theory values.
// It uses the CUE SDK's Go API directly (not a CLI subprocess) and reports
// errors with source positions.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/categorist/chasekit/internal/theory"
)

// CompilePresentation parses a CUE value into a category presentation.
//
// The CUE value should be the presentation struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`presentation: {objects: [...], ...}`)
//	p, err := CompilePresentation(v.LookupPath(cue.ParsePath("presentation")))
func CompilePresentation(v cue.Value) (theory.Presentation, error) {
	var p theory.Presentation
	if err := v.Err(); err != nil {
		return p, formatCUEError(err)
	}

	objectsVal := v.LookupPath(cue.ParsePath("objects"))
	if !objectsVal.Exists() {
		return p, &CompileError{
			Field:   "objects",
			Message: "objects are required",
			Pos:     v.Pos(),
		}
	}
	objects, err := stringList(objectsVal, "objects")
	if err != nil {
		return p, err
	}
	if len(objects) == 0 {
		return p, &CompileError{
			Field:   "objects",
			Message: "at least one object is required",
			Pos:     objectsVal.Pos(),
		}
	}
	p.Objects = objects

	arrowsVal := v.LookupPath(cue.ParsePath("arrows"))
	if arrowsVal.Exists() {
		p.Arrows, err = parseArrows(arrowsVal)
		if err != nil {
			return p, err
		}
	}

	equationsVal := v.LookupPath(cue.ParsePath("equations"))
	if equationsVal.Exists() {
		p.Equations, err = parseEquations(equationsVal)
		if err != nil {
			return p, err
		}
	}

	return p, nil
}

// CompileString compiles CUE source text holding a top-level `presentation`
// struct. Convenience wrapper for tests and the CLI.
func CompileString(src string) (theory.Presentation, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	if err := v.Err(); err != nil {
		return theory.Presentation{}, formatCUEError(err)
	}
	root := v.LookupPath(cue.ParsePath("presentation"))
	if !root.Exists() {
		return theory.Presentation{}, &CompileError{
			Field:   "presentation",
			Message: "top-level presentation struct is required",
			Pos:     v.Pos(),
		}
	}
	return CompilePresentation(root)
}

// parseArrows parses the arrows list. Each entry needs name, src, and dst.
func parseArrows(v cue.Value) ([]theory.Arrow, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var arrows []theory.Arrow
	for i := 0; iter.Next(); i++ {
		av := iter.Value()
		arrow := theory.Arrow{}
		for _, f := range []struct {
			name string
			dst  *string
		}{
			{"name", &arrow.Name},
			{"src", &arrow.Src},
			{"dst", &arrow.Dst},
		} {
			fv := av.LookupPath(cue.ParsePath(f.name))
			if !fv.Exists() {
				return nil, &CompileError{
					Field:   fmt.Sprintf("arrows[%d].%s", i, f.name),
					Message: f.name + " is required",
					Pos:     av.Pos(),
				}
			}
			s, err := fv.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			*f.dst = s
		}
		arrows = append(arrows, arrow)
	}
	return arrows, nil
}

// parseEquations parses the equations list. Each entry carries lhs and rhs
// arrow-name paths; a missing side is the identity path.
func parseEquations(v cue.Value) ([]theory.PathEq, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var eqs []theory.PathEq
	for i := 0; iter.Next(); i++ {
		ev := iter.Value()
		eq := theory.PathEq{}

		if lhs := ev.LookupPath(cue.ParsePath("lhs")); lhs.Exists() {
			eq.LHS, err = stringList(lhs, fmt.Sprintf("equations[%d].lhs", i))
			if err != nil {
				return nil, err
			}
		}
		if rhs := ev.LookupPath(cue.ParsePath("rhs")); rhs.Exists() {
			eq.RHS, err = stringList(rhs, fmt.Sprintf("equations[%d].rhs", i))
			if err != nil {
				return nil, err
			}
		}
		if len(eq.LHS) == 0 && len(eq.RHS) == 0 {
			return nil, &CompileError{
				Field:   fmt.Sprintf("equations[%d]", i),
				Message: "at least one side must name an arrow path",
				Pos:     ev.Pos(),
			}
		}
		eqs = append(eqs, eq)
	}
	return eqs, nil
}

// stringList parses a CUE list of strings.
func stringList(v cue.Value, field string) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: "must be a list of strings",
			Pos:     v.Pos(),
		}
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
