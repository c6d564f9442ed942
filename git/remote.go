package git

import (
	"context"
)

// Fetch runs `git fetch` with args.
func (g *Git) Fetch(ctx context.Context, args ...string) error {
	_, err := g.Run(ctx, append([]string{"fetch"}, args...)...)
	return err
}

// Pull runs `git pull --rebase` with args.
func (g *Git) Pull(ctx context.Context, args ...string) error {
	_, err := g.Run(ctx, append([]string{"pull", "--rebase"}, args...)...)
	return err
}

// Push runs `git push` with args.
func (g *Git) Push(ctx context.Context, args ...string) error {
	_, err := g.Run(ctx, append([]string{"push"}, args...)...)
	return err
}
