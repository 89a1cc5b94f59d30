package chase

import "github.com/categorist/chasekit/internal/ir"

// Axiom kinds recorded per firing.
const (
	KindTGD = "tgd"
	KindEGD = "egd"
)

// Firing records one trigger application inside a round. The environment is
// content-addressed rather than stored: firings identify what fired, not
// the full assignment.
type Firing struct {
	Round   int    `json:"round"`
	Axiom   string `json:"axiom"`
	Kind    string `json:"kind"`
	EnvHash string `json:"env_hash"`
}

// Recorder observes the chase round by round. Implementations must tolerate
// being called once per round with the post-round instance; errors abort the
// chase. The SQLite-backed recorder lives in the store package; the default
// is NopRecorder.
type Recorder interface {
	RecordRound(round int, inst ir.Instance, firings []Firing) error
}

// NopRecorder discards all records.
type NopRecorder struct{}

// RecordRound implements Recorder.
func (NopRecorder) RecordRound(int, ir.Instance, []Firing) error { return nil }
