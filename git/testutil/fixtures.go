package testutil

// Identity used by test sessions and commits.
const (
	TestAuthor   = "Test User"
	TestEmail    = "test@example.com"
	TestUsername = "ci-bot"

	// TestPassword contains reserved URL characters on purpose.
	TestPassword = "p@ss:w/rd?#%"
)

// Remote URLs, one per recognized protocol.
const (
	TestRepoURL      = "https://example.com/team/repo.git"
	TestRepoHTTPURL  = "http://example.com/team/repo.git"
	TestRepoGitURL   = "git://example.com/team/repo.git"
	TestRepoSSHURL   = "ssh://git@example.com/team/repo.git"
	TestRepoSCPURL   = "git@example.com:team/repo.git"
	TestRepoFileURL  = "file:///srv/git/repo.git"
	TestRepoLocalURL = "/srv/git/repo.git"
)

// TestGitVersionOutput is the `git --version` output the fake executor
// reports by default.
const TestGitVersionOutput = "git version 2.43.0\n"

// Branches, tags and commits.
const (
	TestBranchMain    = "main"
	TestBranchName    = "feature/login"
	TestBranchRelease = "release/v1.0.0"
	TestTagName       = "v1.0.0"
	TestTagMessage    = "Release version 1.0.0"
	TestInitialCommit = "Initial commit"
	TestCommitMessage = "Update readme"
)

// Working-tree content.
const (
	TestFilePath    = "README.md"
	TestFileContent = "# Test Repository\n"
)
