package ports

// HeadReader reads the commit a working tree is checked out at without running git.
//
//go:generate go run go.uber.org/mock/mockgen -source=head_reader.go -destination=mocks/mock_head_reader.go -package=mocks
type HeadReader interface {
	// Head returns the full hex object name HEAD resolves to in the repository at dir.
	Head(dir string) (string, error)
}
