package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

const (
	// DefaultRemoteName is the remote every manifest starts with.
	DefaultRemoteName = "github"
	// DefaultFetchTemplate is the fetch template of the built-in default remote.
	DefaultFetchTemplate = "https://github.com/{}"
)

// fetchPlaceholders are the accepted spellings of the project name slot in a fetch template.
var fetchPlaceholders = []string{"{}", "{0}", "{name}"}

// Remote is a named fetch URL template.
type Remote struct {
	Name  string
	Fetch string
}

// NewRemote validates the fetch template and returns a Remote.
func NewRemote(name, fetch string) (Remote, error) {
	if name == "" {
		return Remote{}, zerr.Wrap(ErrManifestMalformed, "remote without name")
	}
	count := 0
	for _, p := range fetchPlaceholders {
		count += strings.Count(fetch, p)
	}
	if count != 1 {
		err := zerr.With(zerr.Wrap(ErrInvalidFetchTemplate, "invalid remote"), "remote", name)
		return Remote{}, zerr.With(err, "fetch", fetch)
	}
	return Remote{Name: name, Fetch: fetch}, nil
}

// URL substitutes the project name into the fetch template.
func (r Remote) URL(project string) string {
	for _, p := range fetchPlaceholders {
		if strings.Contains(r.Fetch, p) {
			return strings.Replace(r.Fetch, p, project, 1)
		}
	}
	return r.Fetch
}

// RemoteTable accumulates remote declarations and the selected default remote
// while a manifest is traversed. The zero value is not usable; call NewRemoteTable.
type RemoteTable struct {
	remotes     map[string]Remote
	defaultName string
}

// NewRemoteTable returns a table seeded with the built-in github remote as default.
func NewRemoteTable() *RemoteTable {
	return &RemoteTable{
		remotes: map[string]Remote{
			DefaultRemoteName: {Name: DefaultRemoteName, Fetch: DefaultFetchTemplate},
		},
		defaultName: DefaultRemoteName,
	}
}

// Declare registers a remote, replacing any earlier remote with the same name.
func (t *RemoteTable) Declare(r Remote) {
	t.remotes[r.Name] = r
}

// SetDefault selects name as the default remote if it has already been declared.
// Unknown names are ignored and false is returned.
func (t *RemoteTable) SetDefault(name string) bool {
	if _, ok := t.remotes[name]; !ok {
		return false
	}
	t.defaultName = name
	return true
}

// Default returns the name of the selected default remote.
func (t *RemoteTable) Default() string {
	return t.defaultName
}

// Resolve returns the fetch URL for a project using the table's current state.
func (t *RemoteTable) Resolve(remoteName, projectName string) (string, error) {
	return Resolve(remoteName, projectName, t.remotes, t.defaultName)
}

// Resolve computes a project's fetch URL. An explicit remoteName must exist in
// remotes; an empty remoteName selects defaultRemote.
func Resolve(remoteName, projectName string, remotes map[string]Remote, defaultRemote string) (string, error) {
	name := remoteName
	if name == "" {
		name = defaultRemote
	}
	r, ok := remotes[name]
	if !ok {
		err := zerr.With(zerr.Wrap(ErrUnknownRemote, "cannot resolve fetch url"), "remote", name)
		return "", zerr.With(err, "project", projectName)
	}
	return r.URL(projectName), nil
}
