// Package testutil provides fakes and fixtures for testing code built on the
// git package: an in-memory credential store, a scripted Executor, and
// helpers that build real repositories on disk with go-git.
package testutil

import (
	"context"
	"sync"

	platformerrors "github.com/jmgilman/gitsession/errors"
	"github.com/jmgilman/gitsession/git"
)

var (
	_ git.CredentialStore = (*MemoryCredentials)(nil)
	_ git.HelperConfig    = (*MemoryCredentials)(nil)
)

// MemoryCredentials is an in-memory git.CredentialStore and git.HelperConfig.
// It models credential.helper as a multi-valued key the way git does.
type MemoryCredentials struct {
	mu       sync.Mutex
	approved []git.Credential
	helpers  []string

	// ApproveErr, if set, is returned by Approve.
	ApproveErr error

	// HelperErr, if set, is returned by Helper.
	HelperErr error
}

// NewMemoryCredentials returns a store with the given helper entries
// already configured.
func NewMemoryCredentials(helpers ...string) *MemoryCredentials {
	return &MemoryCredentials{helpers: append([]string(nil), helpers...)}
}

// Approve records c, or returns ApproveErr.
func (m *MemoryCredentials) Approve(_ context.Context, c git.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ApproveErr != nil {
		return m.ApproveErr
	}
	m.approved = append(m.approved, c)
	return nil
}

// Helper returns the last helper entry, like `git config --get`.
func (m *MemoryCredentials) Helper(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HelperErr != nil {
		return "", m.HelperErr
	}
	if len(m.helpers) == 0 {
		return "", nil
	}
	return m.helpers[len(m.helpers)-1], nil
}

// SetHelper replaces the single helper entry. Like git, it refuses to
// overwrite a key with several values.
func (m *MemoryCredentials) SetHelper(_ context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.helpers) > 1 {
		return platformerrors.New(platformerrors.CodeConflict, "cannot overwrite multiple values with a single value")
	}
	m.helpers = []string{value}
	return nil
}

// UnsetHelper removes every helper entry. Like git, it reports a missing
// key as CodeNotFound.
func (m *MemoryCredentials) UnsetHelper(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.helpers) == 0 {
		return platformerrors.New(platformerrors.CodeNotFound, "credential.helper is not set")
	}
	m.helpers = nil
	return nil
}

// Helpers returns every configured helper entry.
func (m *MemoryCredentials) Helpers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.helpers...)
}

// Approved returns every approved credential in order.
func (m *MemoryCredentials) Approved() []git.Credential {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]git.Credential(nil), m.approved...)
}
