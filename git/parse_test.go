package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformerrors "github.com/jmgilman/gitsession/errors"
)

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitLines("a\r\n\n  b  \nc\n"))
	assert.Nil(t, splitLines(""))
	assert.Nil(t, splitLines("\n \r\n"))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "main", firstLine("\nmain\nother\n"))
	assert.Equal(t, "", firstLine(""))
}

func TestParseBranchList(t *testing.T) {
	out := "  develop\n* main\n+ feature/in-other-worktree\n  (HEAD detached at 1a2b3c4)\n* (no branch, rebasing topic)\n"
	assert.Equal(t, []string{"develop", "main", "feature/in-other-worktree"}, parseBranchList(out))

	assert.Nil(t, parseBranchList(""))
}

func TestParseBranchList_ParenthesizedNames(t *testing.T) {
	out := "  (wip)\n* main\n  (HEAD detached from v1.0.0)\n  (no branch, bisect started on main)\n"
	assert.Equal(t, []string{"(wip)", "main"}, parseBranchList(out))

	assert.Equal(t, []string{"(wip)"}, parseBranchList("* (wip)\n"))
	assert.Equal(t, []string{"origin/(wip)"}, parseRemoteBranchList("  origin/(wip)\n"))
}

func TestParseRemoteBranchList(t *testing.T) {
	out := "  origin/HEAD -> origin/main\n  origin/feature/login\n  origin/main\n"
	assert.Equal(t, []string{"origin/HEAD", "origin/feature/login", "origin/main"}, parseRemoteBranchList(out))
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		out     string
		want    string
		wantErr bool
	}{
		{out: "git version 2.43.0\n", want: "2.43.0"},
		{out: "git version 2.37.1 (Apple Git-137.1)", want: "2.37.1"},
		{out: "git version 2.45.2.windows.1", want: "2.45.2"},
		{out: "git version 2.40", want: "2.40.0"},
		{out: "git version 1.8.3.1", want: "1.8.3"},
		{out: "not git at all", wantErr: true},
		{out: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			v, err := parseVersion(tt.out)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, platformerrors.HasCode(err, platformerrors.CodeParseFailed))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestValidateRefName(t *testing.T) {
	assert.NoError(t, validateRefName("branch", "feature/login"))

	assert.NoError(t, validateRefName("branch", "(wip)"))
	assert.NoError(t, validateRefName("tag", "v1.0.0"))

	for _, name := range []string{"", "  ", "-D", "--force", "has space", "a..b", "HEAD~1", "topic.lock", "feature/", "refs@{1}"} {
		err := validateRefName("branch", name)
		assert.True(t, platformerrors.HasCode(err, platformerrors.CodeInvalidInput), name)
	}

	err := validateRefName("tag", "v1.0.")
	assert.True(t, platformerrors.HasCode(err, platformerrors.CodeInvalidInput))
}

func TestFormatCredential(t *testing.T) {
	got := formatCredential(Credential{
		Protocol: "https",
		Host:     "example.com",
		Username: "u",
		Password: "p=ss",
	})
	assert.Equal(t, "protocol=https\nhost=example.com\nusername=u\npassword=p=ss\n\n", got)

	assert.Equal(t, "email=e@x.com\n\n", formatCredential(Credential{Email: "e@x.com"}))
}

func TestValidateCredential(t *testing.T) {
	assert.NoError(t, validateCredential(Credential{Username: "u", Password: "p w"}))

	err := validateCredential(Credential{Password: "p\nhost=evil.example.com"})
	assert.True(t, platformerrors.HasCode(err, platformerrors.CodeInvalidInput))

	err = validateCredential(Credential{Username: "u\x00"})
	assert.True(t, platformerrors.HasCode(err, platformerrors.CodeInvalidInput))
}
