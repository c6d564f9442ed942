package git

import (
	"context"
)

// Tag creates an annotated tag at HEAD.
func (g *Git) Tag(ctx context.Context, name, message string) error {
	if err := validateRefName("tag", name); err != nil {
		return err
	}
	_, err := g.Run(ctx, "tag", "-a", name, "-m", message)
	return err
}
