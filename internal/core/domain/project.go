package domain

// Project is a fully resolved manifest entry. It is not modified after the
// manifest parser produces it.
type Project struct {
	// Name is the project name as declared in the manifest (e.g. "foo/bar").
	Name string
	// FetchURL is the resolved clone URL; it contains no placeholder.
	FetchURL string
	// Branch is the branch to clone. Empty means the remote's default branch.
	Branch string
	// Depth limits clone history. Zero means a full clone.
	Depth int
	// Path is the destination directory relative to the workspace root.
	Path string
}
