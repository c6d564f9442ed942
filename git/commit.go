package git

import (
	"context"
	"strings"

	platformerrors "github.com/jmgilman/gitsession/errors"
)

// Commit records all tracked changes with message (`git commit -a -m`).
// Unlike a best-effort commit, a failure such as "nothing to commit" is
// returned to the caller.
func (g *Git) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return platformerrors.New(platformerrors.CodeInvalidInput, "commit message is required")
	}
	_, err := g.Run(ctx, "commit", "-a", "-m", message)
	return err
}

// Stash stashes working-tree changes.
func (g *Git) Stash(ctx context.Context) error {
	_, err := g.Run(ctx, "stash")
	return err
}

// Add force-adds pathspec to the index. An empty pathspec means ".".
func (g *Git) Add(ctx context.Context, pathspec string, args ...string) error {
	if pathspec == "" {
		pathspec = "."
	}
	_, err := g.Run(ctx, append([]string{"add", "-f", pathspec}, args...)...)
	return err
}
