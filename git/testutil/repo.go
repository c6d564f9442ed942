package testutil

import (
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/jmgilman/gitsession/exec"
)

// RequireGit skips the test when no git binary is on PATH.
func RequireGit(t testing.TB) {
	t.Helper()
	if _, err := osexec.LookPath("git"); err != nil {
		t.Skip("git binary not found on PATH")
	}
}

// IsolateGitConfig points git's global configuration at a fresh file under
// t.TempDir and disables the system configuration, so tests never touch the
// developer's own settings. It returns the path of the global config file.
func IsolateGitConfig(t testing.TB) string {
	t.Helper()

	home := t.TempDir()
	path := filepath.Join(home, ".gitconfig")
	config := strings.Join([]string{
		"[user]",
		"\tname = " + TestAuthor,
		"\temail = " + TestEmail,
		"[init]",
		"\tdefaultBranch = " + TestBranchMain,
		"[commit]",
		"\tgpgsign = false",
		"[tag]",
		"\tgpgsign = false",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(config), 0o600); err != nil {
		t.Fatalf("failed to write git config: %v", err)
	}

	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GIT_CONFIG_GLOBAL", path)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	return path
}

// NewRepo initializes a repository on main under t.TempDir with one commit
// adding TestFilePath. It returns the repository directory.
func NewRepo(t testing.TB) string {
	t.Helper()

	dir := t.TempDir()
	_, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.Main},
	})
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}

	CommitFile(t, dir, TestFilePath, TestFileContent, TestInitialCommit)
	return dir
}

// NewBareRepo initializes a bare repository under t.TempDir whose HEAD
// points at main. It returns the repository directory.
func NewBareRepo(t testing.TB) string {
	t.Helper()

	dir := t.TempDir()
	_, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.Main},
		Bare:        true,
	})
	if err != nil {
		t.Fatalf("failed to init bare repository: %v", err)
	}
	return dir
}

// NewRemote returns a bare repository holding the history of a fresh NewRepo
// on main. It is usable as a local clone source and push target.
func NewRemote(t testing.TB) string {
	t.Helper()

	src := NewRepo(t)
	remote := filepath.Join(t.TempDir(), "remote.git")

	git := exec.NewWrapper(exec.New(exec.WithInheritEnv()), "git")
	if _, err := git.Run("clone", "--bare", "--quiet", src, remote); err != nil {
		t.Fatalf("failed to create bare remote: %v", err)
	}
	return remote
}

// CommitFile writes content to path inside the repository at dir through a
// billy filesystem and commits it with message. It returns the commit hash.
func CommitFile(t testing.TB, dir, path, content, message string) string {
	t.Helper()

	WriteFile(t, dir, path, content)

	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}
	if _, err := wt.Add(path); err != nil {
		t.Fatalf("failed to stage %s: %v", path, err)
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  TestAuthor,
			Email: TestEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return hash.String()
}

// WriteFile writes content to path inside dir without staging it.
func WriteFile(t testing.TB, dir, path, content string) {
	t.Helper()

	fs := osfs.New(dir)
	if err := util.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// CreateOrphanBranch creates branch in the repository at dir with a root
// commit that shares no history with any other branch. HEAD is left on the
// previously checked out branch.
func CreateOrphanBranch(t testing.TB, dir, branch string) string {
	t.Helper()

	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}

	sig := object.Signature{Name: TestAuthor, Email: TestEmail, When: time.Now()}
	tree := &object.Tree{}
	treeObj := repo.Storer.NewEncodedObject()
	if err := tree.Encode(treeObj); err != nil {
		t.Fatalf("failed to encode tree: %v", err)
	}
	treeHash, err := repo.Storer.SetEncodedObject(treeObj)
	if err != nil {
		t.Fatalf("failed to store tree: %v", err)
	}

	commit := &object.Commit{
		Author:    sig,
		Committer: sig,
		Message:   "Unrelated root",
		TreeHash:  treeHash,
	}
	commitObj := repo.Storer.NewEncodedObject()
	if err := commit.Encode(commitObj); err != nil {
		t.Fatalf("failed to encode commit: %v", err)
	}
	commitHash, err := repo.Storer.SetEncodedObject(commitObj)
	if err != nil {
		t.Fatalf("failed to store commit: %v", err)
	}

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), commitHash)
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("failed to create branch %s: %v", branch, err)
	}
	return commitHash.String()
}
