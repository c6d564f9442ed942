package git

import (
	"context"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	platformerrors "github.com/jmgilman/gitsession/errors"
)

// Switch checks out name, creating it first if no local branch has that name.
func (g *Git) Switch(ctx context.Context, name string) error {
	exists, err := g.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return g.Checkout(ctx, name)
	}
	return g.CreateBranch(ctx, name)
}

// CreateBranch creates name from HEAD and checks it out. It fails with
// CodeAlreadyExists if the branch exists.
func (g *Git) CreateBranch(ctx context.Context, name string) error {
	if err := validateRefName("branch", name); err != nil {
		return err
	}
	_, err := g.Run(ctx, "checkout", "-b", name)
	return err
}

// Checkout checks out an existing branch.
func (g *Git) Checkout(ctx context.Context, name string) error {
	if err := validateRefName("branch", name); err != nil {
		return err
	}
	_, err := g.Run(ctx, "checkout", name)
	return err
}

// CreateRemote pushes branch to origin and sets it as upstream. An empty
// branch means the current branch.
func (g *Git) CreateRemote(ctx context.Context, branch string) error {
	if branch == "" {
		current, err := g.CurrentBranch(ctx)
		if err != nil {
			return err
		}
		branch = current
	}
	if err := validateRefName("branch", branch); err != nil {
		return err
	}
	_, err := g.Run(ctx, "push", "-u", RemoteName, branch)
	return err
}

// DeleteRemote deletes branch from origin.
func (g *Git) DeleteRemote(ctx context.Context, branch string) error {
	if err := validateRefName("branch", branch); err != nil {
		return err
	}
	_, err := g.Run(ctx, "push", RemoteName, "--delete", branch)
	return err
}

// DeleteLocal deletes a local branch. Branches that are not fully merged are
// kept and CodeConflict is returned.
func (g *Git) DeleteLocal(ctx context.Context, branch string) error {
	if err := validateRefName("branch", branch); err != nil {
		return err
	}
	_, err := g.Run(ctx, "branch", "-d", branch)
	return err
}

// CurrentBranch returns the short name of the checked out branch.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.Run(ctx, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	name := firstLine(out)
	if name == "" {
		return "", platformerrors.New(platformerrors.CodeParseFailed, "git symbolic-ref returned no branch name")
	}
	return name, nil
}

// LocalBranches lists local branch names.
func (g *Git) LocalBranches(ctx context.Context) ([]string, error) {
	out, err := g.Run(ctx, "branch")
	if err != nil {
		return nil, err
	}
	return parseBranchList(out), nil
}

// RemoteBranches lists remote-tracking branch names such as "origin/main".
func (g *Git) RemoteBranches(ctx context.Context) ([]string, error) {
	out, err := g.Run(ctx, "branch", "-r")
	if err != nil {
		return nil, err
	}
	return parseRemoteBranchList(out), nil
}

// Exists reports whether a local branch named name exists.
func (g *Git) Exists(ctx context.Context, name string) (bool, error) {
	if err := validateRefName("branch", name); err != nil {
		return false, err
	}
	branches, err := g.LocalBranches(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(branches, name), nil
}

// HasRemote reports whether the current branch tracks a remote branch,
// based on the tracking summary printed by a bare `git checkout`.
func (g *Git) HasRemote(ctx context.Context) (bool, error) {
	out, err := g.Run(ctx, "checkout")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// validateRefName rejects names git would parse as an option and names
// that break git's ref naming rules. kind is "branch" or "tag".
func validateRefName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return platformerrors.Newf(platformerrors.CodeInvalidInput, "%s name is required", kind)
	}
	if strings.HasPrefix(name, "-") {
		return platformerrors.Newf(platformerrors.CodeInvalidInput, "%s name %q must not start with '-'", kind, name)
	}

	ref := plumbing.NewBranchReferenceName(name)
	if kind == "tag" {
		ref = plumbing.NewTagReferenceName(name)
	}
	if err := ref.Validate(); err != nil {
		return platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "invalid %s name %q", kind, name)
	}
	return nil
}
