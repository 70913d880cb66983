package git

import "context"

// Run exposes the allow-listed command runner for testing.
func (r *Runner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	return r.run(ctx, dir, args...)
}
