package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/gitsession/git"
	"github.com/jmgilman/gitsession/git/testutil"
)

type harness struct {
	fake   *testutil.FakeExecutor
	mem    *testutil.MemoryCredentials
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness() *harness {
	return &harness{
		fake: testutil.NewFakeExecutor(),
		mem:  testutil.NewMemoryCredentials(),
	}
}

// run executes the CLI against a session rooted at /src/repo with a full
// identity, so construction needs no read-backs.
func (h *harness) run(args ...string) int {
	base := []string{
		"--root", "/src/repo",
		"--url", testutil.TestRepoURL,
		"--username", testutil.TestUsername,
		"--password", "token",
		"--email", testutil.TestEmail,
	}
	return Execute(context.Background(), "test", append(base, args...), &h.stdout, &h.stderr,
		git.WithExecutor(h.fake),
		git.WithCredentialStore(h.mem),
		git.WithHelperConfig(h.mem),
	)
}

func TestSwitchCommand(t *testing.T) {
	h := newHarness()
	h.fake.On("git branch", testutil.Response{Stdout: "* main\n"})

	require.Equal(t, 0, h.run("switch", testutil.TestBranchName), h.stderr.String())
	assert.Contains(t, h.fake.CommandLines(), "git checkout -b feature/login")
	assert.Equal(t, []string{"cache --timeout=31536000"}, h.mem.Helpers())
}

func TestBranchesCommand(t *testing.T) {
	h := newHarness()
	h.fake.
		On("git branch", testutil.Response{Stdout: "  develop\n* main\n"}).
		On("git branch -r", testutil.Response{Stdout: "  origin/main\n"})

	require.Equal(t, 0, h.run("branches"))
	assert.Equal(t, "develop\nmain\n", h.stdout.String())

	h.stdout.Reset()
	require.Equal(t, 0, h.run("--json", "branches", "--remote"))
	var branches []string
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &branches))
	assert.Equal(t, []string{"origin/main"}, branches)
}

func TestCurrentCommand(t *testing.T) {
	h := newHarness()
	h.fake.
		On("git symbolic-ref --short HEAD", testutil.Response{Stdout: "main\n"}).
		On("git checkout", testutil.Response{Stdout: "Your branch is up to date with 'origin/main'.\n"})

	require.Equal(t, 0, h.run("--json", "current"))
	var result map[string]any
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &result))
	assert.Equal(t, "main", result["branch"])
	assert.Equal(t, true, result["tracked"])
}

func TestCanMergeCommand(t *testing.T) {
	h := newHarness()
	h.fake.
		On("git symbolic-ref --short HEAD", testutil.Response{Stdout: "feature/login\n"}).
		On("git branch --contains feature/login", testutil.Response{Stdout: "* feature/login\n  main\n"})

	require.Equal(t, 0, h.run("can-merge", "main"))
	assert.Equal(t, "true\n", h.stdout.String())
}

func TestCloneCommand(t *testing.T) {
	h := newHarness()
	authURL := git.MakeRemoteURL(testutil.TestRepoURL, testutil.TestUsername, "token")

	require.Equal(t, 0, h.run("--json", "clone", testutil.TestRepoURL, "/src/clone", "--", "--depth", "1"), h.stderr.String())
	assert.Equal(t, []string{"git", "clone", "--depth", "1", authURL, "/src/clone"}, h.fake.Calls()[0].Args)

	var result repoResult
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &result))
	assert.Equal(t, "/src/clone", result.Root)
	assert.Equal(t, git.ProtocolHTTPS, result.Protocol)
	assert.NotContains(t, result.URL, "token", "credentials are redacted in output")
}

func TestInitCommand(t *testing.T) {
	h := newHarness()
	path := t.TempDir()
	h.fake.
		OnPrefix("git remote add origin", testutil.Response{}, testutil.Response{ExitCode: 3}).
		On("git symbolic-ref --short HEAD", testutil.Response{Stdout: "main\n"})

	require.Equal(t, 0, h.run("init", testutil.TestRepoURL, path, "--pull-arg", "origin", "--pull-arg", "main"), h.stderr.String())
	assert.Equal(t, path+"\n", h.stdout.String())
	assert.Contains(t, h.fake.CommandLines(), "git pull --rebase origin main")
}

func TestChangeCommands(t *testing.T) {
	h := newHarness()

	require.Equal(t, 0, h.run("add", "docs"))
	require.Equal(t, 0, h.run("commit", "-m", "Update docs"))
	require.Equal(t, 0, h.run("tag", "v1.2.0", "-m", "Release"))
	require.Equal(t, 0, h.run("stash"))
	require.Equal(t, 0, h.run("publish", "feature/login"))
	require.Equal(t, 0, h.run("delete", "--remote", "feature/login"))
	require.Equal(t, 0, h.run("delete", "feature/login"))
	require.Equal(t, 0, h.run("push", "--", "--tags"))
	require.Equal(t, 0, h.run("pull"))
	require.Equal(t, 0, h.run("fetch", "--", "--prune"))

	lines := h.fake.CommandLines()
	for _, want := range []string{
		"git add -f docs",
		"git commit -a -m Update docs",
		"git tag -a v1.2.0 -m Release",
		"git stash",
		"git push -u origin feature/login",
		"git push origin --delete feature/login",
		"git branch -d feature/login",
		"git push --tags",
		"git pull --rebase",
		"git fetch --prune",
	} {
		assert.Contains(t, lines, want)
	}
}

func TestHelperCommand(t *testing.T) {
	h := newHarness()
	h.mem = testutil.NewMemoryCredentials("osxkeychain")

	require.Equal(t, 0, h.run("helper", "--show"))
	assert.Equal(t, "osxkeychain\n", h.stdout.String(), "show does not touch the helper")

	h.stdout.Reset()
	require.Equal(t, 0, h.run("helper", "store", "--", "--file=/tmp/creds"))
	assert.Equal(t, []string{"store --file=/tmp/creds"}, h.mem.Helpers())

	h.stdout.Reset()
	require.Equal(t, 0, h.run("--json", "helper", "--disable"))
	var result map[string]any
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &result))
	assert.Equal(t, false, result["enabled"])
	assert.Empty(t, h.mem.Helpers())

	require.Equal(t, 1, h.run("helper", "--show", "--disable"))
}

func TestErrors(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		h := newHarness()
		h.fake.On("git checkout -b main", testutil.Response{
			ExitCode: 128,
			Stderr:   "fatal: a branch named 'main' already exists",
		})

		assert.Equal(t, 1, h.run("switch", "main"))
		assert.Contains(t, h.stderr.String(), "ALREADY_EXISTS")
	})

	t.Run("json", func(t *testing.T) {
		h := newHarness()
		h.fake.OnPrefix("git push", testutil.Response{
			ExitCode: 1,
			Stderr:   " ! [rejected]        main -> main (non-fast-forward)",
		})

		assert.Equal(t, 1, h.run("--json", "push"))
		var resp map[string]any
		require.NoError(t, json.Unmarshal(h.stderr.Bytes(), &resp))
		assert.Equal(t, "CONFLICT", resp["code"])
		assert.Equal(t, "PERMANENT", resp["classification"])
	})

	t.Run("usage", func(t *testing.T) {
		h := newHarness()
		assert.Equal(t, 1, h.run("switch"))
		assert.Contains(t, h.stderr.String(), "Usage:")
		assert.Empty(t, h.fake.Calls())
	})

	t.Run("config", func(t *testing.T) {
		h := newHarness()
		assert.Equal(t, 1, h.run("--log-level", "chatty", "branches"))
		assert.Contains(t, h.stderr.String(), "unknown log level")
	})

	t.Run("required flag", func(t *testing.T) {
		h := newHarness()
		assert.Equal(t, 1, h.run("commit"))
		assert.Empty(t, h.fake.Calls())
	})
}

func TestConfigCommand(t *testing.T) {
	h := newHarness()
	h.fake.On("git config --list", testutil.Response{Stdout: "user.name=Test User\n"})

	require.Equal(t, 0, h.run("config"))
	assert.Equal(t, "user.name=Test User\n", h.stdout.String())
}

func TestVersionUsesConfiguredWriters(t *testing.T) {
	h := newHarness()

	require.Equal(t, 0, h.run("--version"))
	assert.Equal(t, "gitsession version test\n", h.stdout.String())
	assert.Empty(t, h.stderr.String())
	assert.Empty(t, h.fake.Calls())
}
