package domain

// WorkTreeState describes how a working tree compares with its ledger entry.
type WorkTreeState string

const (
	// WorkTreeInSync means HEAD equals the recorded commit.
	WorkTreeInSync WorkTreeState = "in-sync"
	// WorkTreeDrifted means HEAD differs from the recorded commit.
	WorkTreeDrifted WorkTreeState = "drifted"
	// WorkTreeMissing means the path does not hold a readable repository.
	WorkTreeMissing WorkTreeState = "missing"
)

// ProjectStatus is one row of a status report.
type ProjectStatus struct {
	Path     string        `json:"path" yaml:"path"`
	Recorded string        `json:"recorded" yaml:"recorded"`
	Current  string        `json:"current,omitempty" yaml:"current,omitempty"`
	State    WorkTreeState `json:"state" yaml:"state"`
}
