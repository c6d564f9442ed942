package git

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/kballard/go-shellquote"

	platformerrors "github.com/jmgilman/gitsession/errors"
	"github.com/jmgilman/gitsession/exec"
)

// CredentialStore persists credentials outside the session.
//
// The default store writes to git's credential helpers, which is global
// state shared by every session on the host.
type CredentialStore interface {
	Approve(ctx context.Context, c Credential) error
}

// HelperConfig reads and writes the credential.helper setting.
type HelperConfig interface {
	// Helper returns the configured helper, or "" if none is set.
	Helper(ctx context.Context) (string, error)

	// SetHelper stores value as the helper.
	SetHelper(ctx context.Context, value string) error

	// UnsetHelper removes every helper entry. It returns a CodeNotFound
	// error when no helper was configured.
	UnsetHelper(ctx context.Context) error
}

// GlobalCredentials implements CredentialStore and HelperConfig on top of
// `git credential approve` and `git config --global credential.helper`.
type GlobalCredentials struct {
	run *runner
}

// NewGlobalCredentials returns a GlobalCredentials that runs git through e.
func NewGlobalCredentials(e exec.Executor) *GlobalCredentials {
	return &GlobalCredentials{run: newOptions(WithExecutor(e)).runner()}
}

// Approve pipes c to `git credential approve` as key=value lines.
func (g *GlobalCredentials) Approve(ctx context.Context, c Credential) error {
	_, err := g.run.run(ctx, "", strings.NewReader(formatCredential(c)), "credential", "approve")
	return err
}

// Helper returns the last global credential.helper entry, or "" if the key
// is not set.
func (g *GlobalCredentials) Helper(ctx context.Context) (string, error) {
	out, err := g.run.run(ctx, "", nil, "config", "--global", "--get", "credential.helper")
	if platformerrors.HasCode(err, platformerrors.CodeNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return firstLine(out), nil
}

// SetHelper writes value as the global credential.helper. git refuses to
// overwrite a key that already holds several values.
func (g *GlobalCredentials) SetHelper(ctx context.Context, value string) error {
	_, err := g.run.run(ctx, "", nil, "config", "--global", "credential.helper", value)
	return err
}

// UnsetHelper removes every global credential.helper entry. A missing key
// is reported as CodeNotFound.
func (g *GlobalCredentials) UnsetHelper(ctx context.Context) error {
	_, err := g.run.run(ctx, "", nil, "config", "--global", "--unset-all", "credential.helper")
	return err
}

// formatCredential renders c in git's credential protocol. The caller has
// already rejected values containing newlines or NUL.
func formatCredential(c Credential) string {
	var b strings.Builder
	for _, kv := range [][2]string{
		{"protocol", c.Protocol},
		{"host", c.Host},
		{"username", c.Username},
		{"password", c.Password},
		{"email", c.Email},
	} {
		if kv[1] == "" {
			continue
		}
		b.WriteString(kv[0] + "=" + kv[1] + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func validateCredential(c Credential) error {
	for key, value := range map[string]string{
		"protocol": c.Protocol,
		"host":     c.Host,
		"username": c.Username,
		"password": c.Password,
		"email":    c.Email,
	} {
		if strings.ContainsAny(value, "\n\x00") {
			return platformerrors.Newf(platformerrors.CodeInvalidInput, "credential %s contains a newline or NUL byte", key)
		}
	}
	return nil
}

// ConfigureCredentialHelper installs helper with args as the global
// credential helper.
//
// Existing helper entries are removed first; a missing entry is not an
// error. The current value is then read back, with a failed read counting
// as no helper, and the new value is written only if helper does not
// already appear in it, so repeated calls leave exactly one entry.
func (g *Git) ConfigureCredentialHelper(ctx context.Context, helper string, args ...string) error {
	if helper == "" {
		return platformerrors.New(platformerrors.CodeInvalidInput, "credential helper is required")
	}

	return g.withLock(ctx, func() error {
		if err := g.DisableCredentialHelper(ctx); err != nil {
			return err
		}

		current, err := g.helpers.Helper(ctx)
		if err != nil {
			g.logger.InfoContext(ctx, "ignored: failed to read credential helper", "error", err)
			current = ""
		}
		if strings.Contains(current, helper) {
			g.logger.DebugContext(ctx, "credential helper already configured", "helper", current)
			return nil
		}

		value := shellquote.Join(append([]string{helper}, args...)...)
		if err := g.helpers.SetHelper(ctx, value); err != nil {
			return err
		}
		g.logger.DebugContext(ctx, "configured credential helper", "helper", value)
		return nil
	})
}

// DisableCredentialHelper removes every credential helper entry. It is not
// an error if none is configured.
func (g *Git) DisableCredentialHelper(ctx context.Context) error {
	err := g.helpers.UnsetHelper(ctx)
	if platformerrors.HasCode(err, platformerrors.CodeNotFound) {
		g.logger.InfoContext(ctx, "ignored: no credential helper to unset")
		return nil
	}
	return err
}

// CredentialHelper returns the configured helper, or "" if none is set.
func (g *Git) CredentialHelper(ctx context.Context) (string, error) {
	return g.helpers.Helper(ctx)
}

// IsCredentialHelperEnabled reports whether any credential helper is set.
func (g *Git) IsCredentialHelperEnabled(ctx context.Context) (bool, error) {
	helper, err := g.helpers.Helper(ctx)
	if err != nil {
		return false, err
	}
	return helper != "", nil
}

// approve validates c, adds the https target of the remote, and hands it to
// the credential store. Once the target is known the session's username and
// password travel together so helpers can store a complete entry.
func (g *Git) approve(ctx context.Context, c Credential) error {
	if target := credentialTarget(g.url); target.Host != "" {
		c.Protocol = target.Protocol
		c.Host = target.Host
		if c.Username == "" {
			c.Username = g.username
		}
		if c.Password == "" {
			c.Password = g.password
		}
	}

	if err := validateCredential(c); err != nil {
		return err
	}

	return g.withLock(ctx, func() error {
		return g.store.Approve(ctx, c)
	})
}

const lockRetryDelay = 50 * time.Millisecond

// withLock runs fn while holding the session's lock file, if one is set.
func (g *Git) withLock(ctx context.Context, fn func() error) error {
	if g.lockFile == "" {
		return fn()
	}

	if _, ok := ctx.Deadline(); !ok && g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	lock := flock.New(g.lockFile)
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		code := platformerrors.CodeUnavailable
		if ctx.Err() != nil {
			code = platformerrors.CodeTimeout
		}
		return platformerrors.WrapWithContext(err, code, "failed to acquire credential lock",
			map[string]interface{}{"lock_file": g.lockFile})
	}
	if !ok {
		return platformerrors.WithContext(
			platformerrors.New(platformerrors.CodeTimeout, "timed out waiting for credential lock"),
			"lock_file", g.lockFile,
		)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			g.logger.WarnContext(ctx, "failed to release credential lock", "lock_file", g.lockFile, "error", err)
		}
	}()

	return fn()
}
