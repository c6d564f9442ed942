package git

import (
	"context"
	"strings"
)

// CanMerge reports whether it is safe to merge the current branch into
// into.
//
// When into is the current branch the answer is whether there are
// uncommitted changes worth committing. Otherwise it is whether into is one
// of the local branches that already contain the current branch's tip.
func (g *Git) CanMerge(ctx context.Context, into string) (bool, error) {
	if err := validateRefName("branch", into); err != nil {
		return false, err
	}

	current, err := g.CurrentBranch(ctx)
	if err != nil {
		return false, err
	}
	if current == into {
		return g.HasCommitableChanges(ctx)
	}

	out, err := g.Run(ctx, "branch", "--contains", current)
	if err != nil {
		return false, err
	}
	for _, branch := range parseBranchList(out) {
		if branch == into {
			return true, nil
		}
	}
	return false, nil
}

// HasCommitableChanges reports whether `git diff` shows unstaged changes to
// tracked files.
func (g *Git) HasCommitableChanges(ctx context.Context) (bool, error) {
	out, err := g.Run(ctx, "diff")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}
