package git_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformerrors "github.com/jmgilman/gitsession/errors"
	"github.com/jmgilman/gitsession/git"
	"github.com/jmgilman/gitsession/git/testutil"
)

// storeHelper returns an option installing the store helper on a file
// under t.TempDir, so real credential approvals never reach a daemon.
func storeHelper(t *testing.T) git.Option {
	t.Helper()
	return git.WithCredentialHelper("store", "--file="+filepath.Join(t.TempDir(), "credentials"))
}

// cloneFixture clones a fresh local remote with real git and returns the
// session and the remote path.
func cloneFixture(t *testing.T) (*git.Repo, string) {
	t.Helper()
	testutil.RequireGit(t)
	testutil.IsolateGitConfig(t)

	remote := testutil.NewRemote(t)
	repo, err := git.Clone(context.Background(), git.CloneConfig{
		Path: filepath.Join(t.TempDir(), "checkout"),
		URL:  remote,
	}, storeHelper(t))
	require.NoError(t, err)
	return repo, remote
}

func globalHelpers(t *testing.T, g *git.Repo) []string {
	t.Helper()
	out, err := g.Run(context.Background(), "config", "--global", "--get-all", "credential.helper")
	require.NoError(t, err)

	var helpers []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			helpers = append(helpers, line)
		}
	}
	return helpers
}

func TestIntegration_Clone(t *testing.T) {
	repo, remote := cloneFixture(t)
	ctx := context.Background()

	assert.Equal(t, remote, repo.URL())
	assert.Equal(t, git.ProtocolFile, repo.Protocol())
	assert.Equal(t, testutil.TestAuthor, repo.Username())
	assert.Equal(t, testutil.TestEmail, repo.Email())
	assert.Empty(t, repo.Password())
	assert.FileExists(t, filepath.Join(repo.Root(), testutil.TestFilePath))

	branch, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestBranchMain, branch)

	remotes, err := repo.RemoteBranches(ctx)
	require.NoError(t, err)
	assert.Contains(t, remotes, "origin/main")

	tracked, err := repo.HasRemote(ctx)
	require.NoError(t, err)
	assert.True(t, tracked)
}

func TestIntegration_SwitchTwice(t *testing.T) {
	repo, _ := cloneFixture(t)
	ctx := context.Background()

	for range 2 {
		require.NoError(t, repo.Switch(ctx, testutil.TestBranchName))
		branch, err := repo.CurrentBranch(ctx)
		require.NoError(t, err)
		assert.Equal(t, testutil.TestBranchName, branch)
	}

	require.NoError(t, repo.Switch(ctx, testutil.TestBranchMain))
	local, err := repo.LocalBranches(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{testutil.TestBranchMain, testutil.TestBranchName}, local)

	err = repo.CreateBranch(ctx, testutil.TestBranchName)
	assert.True(t, platformerrors.HasCode(err, platformerrors.CodeAlreadyExists))
}

func TestIntegration_SwitchParenthesizedBranch(t *testing.T) {
	repo, _ := cloneFixture(t)
	ctx := context.Background()
	const wip = "(wip)"

	require.NoError(t, repo.Switch(ctx, wip))
	require.NoError(t, repo.Switch(ctx, testutil.TestBranchMain))

	exists, err := repo.Exists(ctx, wip)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Switch(ctx, wip))
	branch, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, wip, branch)
}

func TestIntegration_CanMergeIntoCurrent(t *testing.T) {
	repo, _ := cloneFixture(t)
	ctx := context.Background()

	ok, err := repo.CanMerge(ctx, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.False(t, ok, "clean tree has nothing to merge")

	testutil.WriteFile(t, repo.Root(), testutil.TestFilePath, "changed\n")

	ok, err = repo.CanMerge(ctx, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIntegration_CanMergeAcrossBranches(t *testing.T) {
	repo, _ := cloneFixture(t)
	ctx := context.Background()

	testutil.CreateOrphanBranch(t, repo.Root(), "unrelated")
	require.NoError(t, repo.Switch(ctx, testutil.TestBranchName))

	ok, err := repo.CanMerge(ctx, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.True(t, ok, "main contains the tip of a fresh branch")

	ok, err = repo.CanMerge(ctx, "unrelated")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIntegration_CommitPushAndDelete(t *testing.T) {
	repo, remote := cloneFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.Switch(ctx, testutil.TestBranchName))
	testutil.WriteFile(t, repo.Root(), testutil.TestFilePath, "feature work\n")
	require.NoError(t, repo.Commit(ctx, testutil.TestCommitMessage))

	err := repo.Commit(ctx, testutil.TestCommitMessage)
	assert.Error(t, err, "nothing to commit is reported")

	require.NoError(t, repo.CreateRemote(ctx, ""))
	remotes, err := repo.RemoteBranches(ctx)
	require.NoError(t, err)
	assert.Contains(t, remotes, "origin/"+testutil.TestBranchName)

	out, err := repo.Run(ctx, "--git-dir="+remote, "branch", "--list", testutil.TestBranchName)
	require.NoError(t, err)
	assert.Contains(t, out, testutil.TestBranchName)

	require.NoError(t, repo.DeleteRemote(ctx, testutil.TestBranchName))
	remotes, err = repo.RemoteBranches(ctx)
	require.NoError(t, err)
	assert.NotContains(t, remotes, "origin/"+testutil.TestBranchName)

	require.NoError(t, repo.Switch(ctx, testutil.TestBranchMain))
	err = repo.DeleteLocal(ctx, testutil.TestBranchName)
	assert.True(t, platformerrors.HasCode(err, platformerrors.CodeConflict), "unmerged branch is kept")

	exists, err := repo.Exists(ctx, testutil.TestBranchName)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestIntegration_AddStashAndTag(t *testing.T) {
	repo, _ := cloneFixture(t)
	ctx := context.Background()

	testutil.WriteFile(t, repo.Root(), "notes.txt", "draft\n")
	require.NoError(t, repo.Add(ctx, "notes.txt"))
	require.NoError(t, repo.Stash(ctx))
	assert.NoFileExists(t, filepath.Join(repo.Root(), "notes.txt"))

	require.NoError(t, repo.Tag(ctx, testutil.TestTagName, testutil.TestTagMessage))
	out, err := repo.Run(ctx, "tag", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, testutil.TestTagName)

	err = repo.Tag(ctx, testutil.TestTagName, testutil.TestTagMessage)
	assert.True(t, platformerrors.HasCode(err, platformerrors.CodeAlreadyExists))
}

func TestIntegration_CredentialHelperIsIdempotent(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGitConfig(t)
	ctx := context.Background()
	dir := testutil.NewRepo(t)

	opt := storeHelper(t)
	repo, err := git.Open(ctx, dir, git.Config{URL: testutil.TestRepoURL}, opt)
	require.NoError(t, err)

	for _, helper := range []string{"osxkeychain", "manager"} {
		_, err := repo.Run(ctx, "config", "--global", "--add", "credential.helper", helper)
		require.NoError(t, err)
	}
	require.Len(t, globalHelpers(t, repo), 3)

	for range 3 {
		repo, err = git.Open(ctx, dir, git.Config{URL: testutil.TestRepoURL}, opt)
		require.NoError(t, err)
	}

	helpers := globalHelpers(t, repo)
	require.Len(t, helpers, 1)
	assert.Contains(t, helpers[0], "store --file=")

	require.NoError(t, repo.ConfigureCredentialHelper(ctx, "store", "--file=/dev/null"))
	assert.Len(t, globalHelpers(t, repo), 1)

	require.NoError(t, repo.DisableCredentialHelper(ctx))
	enabled, err := repo.IsCredentialHelperEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
	require.NoError(t, repo.DisableCredentialHelper(ctx))
}

func TestIntegration_CredentialsAreStored(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGitConfig(t)
	ctx := context.Background()
	dir := testutil.NewRepo(t)
	store := filepath.Join(t.TempDir(), "credentials")

	repo, err := git.Open(ctx, dir, git.Config{
		URL:      testutil.TestRepoURL,
		Username: testutil.TestUsername,
		Password: testutil.TestPassword,
		Email:    testutil.TestEmail,
	}, git.WithCredentialHelper("store", "--file="+store))
	require.NoError(t, err)
	assert.Equal(t, testutil.TestRepoURL, repo.URL())

	data, err := os.ReadFile(store)
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://ci-bot:")
	assert.Contains(t, string(data), "@example.com")
}

func TestIntegration_Init(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGitConfig(t)
	ctx := context.Background()

	remote := testutil.NewRemote(t)
	dir := filepath.Join(t.TempDir(), "fresh")

	g, err := git.Init(ctx, git.InitConfig{Path: dir, URL: remote}, storeHelper(t))
	require.NoError(t, err)

	assert.Equal(t, dir, g.Root())
	assert.Equal(t, remote, g.URL())
	assert.FileExists(t, filepath.Join(dir, testutil.TestFilePath))

	branch, err := g.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestBranchMain, branch)
}

func TestIntegration_PublishToEmptyRemote(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGitConfig(t)
	ctx := context.Background()

	remote := testutil.NewBareRepo(t)
	repo, err := git.Open(ctx, testutil.NewRepo(t), git.Config{URL: remote}, storeHelper(t))
	require.NoError(t, err)

	tracked, err := repo.HasRemote(ctx)
	require.NoError(t, err)
	assert.False(t, tracked)

	require.NoError(t, repo.CreateRemote(ctx, ""))

	tracked, err = repo.HasRemote(ctx)
	require.NoError(t, err)
	assert.True(t, tracked)

	remotes, err := repo.RemoteBranches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"origin/main"}, remotes)
}

func TestIntegration_NotARepository(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGitConfig(t)

	_, err := git.Open(context.Background(), t.TempDir(), git.Config{URL: testutil.TestRepoURL}, storeHelper(t))
	require.Error(t, err)
	assert.True(t, platformerrors.HasCode(err, platformerrors.CodeNotFound))
}
