package domain

import "regexp"

// LedgerSection is the name of the single section the commit ledger is stored under.
const LedgerSection = "commits"

// commitPattern matches SHA-1 and SHA-256 object names.
var commitPattern = regexp.MustCompile(`^(?:[0-9a-f]{40}|[0-9a-f]{64})$`)

// IsCommitHash reports whether s is a full lowercase hex object name.
func IsCommitHash(s string) bool {
	return commitPattern.MatchString(s)
}

// LedgerEntry records the commit a project path was synchronized to.
type LedgerEntry struct {
	Path   string `json:"path" yaml:"path"`
	Commit string `json:"commit" yaml:"commit"`
}

// Ledger is an ordered path to commit mapping.
type Ledger struct {
	entries []LedgerEntry
	index   map[string]int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// LedgerFromOutcomes builds a ledger from successful outcomes in order.
// Failed outcomes are ignored; callers only persist fully successful runs.
func LedgerFromOutcomes(outcomes []SyncOutcome) *Ledger {
	l := NewLedger()
	for _, o := range outcomes {
		if o.OK() {
			l.Set(o.Path, o.Commit)
		}
	}
	return l
}

// Set records commit for path. An existing path keeps its position and takes the new commit.
func (l *Ledger) Set(path, commit string) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if i, ok := l.index[path]; ok {
		l.entries[i].Commit = commit
		return
	}
	l.index[path] = len(l.entries)
	l.entries = append(l.entries, LedgerEntry{Path: path, Commit: commit})
}

// Commit returns the commit recorded for path.
func (l *Ledger) Commit(path string) (string, bool) {
	i, ok := l.index[path]
	if !ok {
		return "", false
	}
	return l.entries[i].Commit, true
}

// Entries returns a copy of the entries in insertion order.
func (l *Ledger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}
