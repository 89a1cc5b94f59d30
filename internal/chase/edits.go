package chase

import (
	"github.com/categorist/chasekit/internal/ir"
	"github.com/categorist/chasekit/internal/theory"
)

// Edit records the already-settled portion of an instance - the image of
// the pre-step instance inside the post-step one. The semi-naive schedule
// uses edits to classify triggers: a trigger whose witnessing elements all
// lie in the image acts on old data and is skipped.
type Edit struct {
	Image ir.Instance
}

// NewEdit wraps an image instance.
func NewEdit(image ir.Instance) Edit {
	return Edit{Image: image}
}

// ComposeEdits composes sequential edits by unioning their images, so data
// settled by either edit stays settled in the composition.
func ComposeEdits(e1, e2 Edit) Edit {
	return Edit{Image: e1.Image.Union(e2.Image)}
}

// Covers reports whether a trigger acts entirely on settled data: every
// environment value is present in the image's carrier for its variable's
// sort. Empty environments are vacuously covered - empty-front axioms are
// fired by the unconditional seeding pass, not the incremental loop.
func (e Edit) Covers(ed theory.ED, tr Trigger) bool {
	for _, v := range ed.Forall {
		val, ok := tr.Env[v.Name]
		if !ok {
			continue
		}
		if !e.Image.Carrier(v.Sort).Has(val) {
			return false
		}
	}
	return true
}
