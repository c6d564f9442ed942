package git

import (
	"strings"
)

// splitLines splits git output into trimmed, non-empty lines. Both LF and
// CRLF line endings are accepted.
func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// firstLine returns the first non-empty line of out, or "".
func firstLine(out string) string {
	if lines := splitLines(out); len(lines) > 0 {
		return lines[0]
	}
	return ""
}

// parseBranchList parses the output of `git branch` and
// `git branch --contains`.
//
// The format looks like:
//
//	  develop
//	* main
//	+ feature/in-other-worktree
//	  (HEAD detached at 1a2b3c4)
//
// The current-branch marker "* " and the linked-worktree marker "+ " are
// stripped. Detached HEAD and in-progress rebase entries are skipped since
// they name no branch. A branch whose own name starts with "(" is kept.
func parseBranchList(out string) []string {
	var branches []string
	for _, line := range splitLines(out) {
		line = strings.TrimPrefix(line, "* ")
		line = strings.TrimPrefix(line, "+ ")
		line = strings.TrimSpace(line)
		if line == "" || isPseudoBranch(line) {
			continue
		}
		branches = append(branches, line)
	}
	return branches
}

// pseudoBranchPrefixes are the entries git prints in branch listings when
// HEAD is not on a branch.
var pseudoBranchPrefixes = []string{
	"(HEAD detached at ",
	"(HEAD detached from ",
	"(no branch",
}

func isPseudoBranch(line string) bool {
	for _, prefix := range pseudoBranchPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// parseRemoteBranchList parses the output of `git branch -r`. Symbolic
// entries such as "origin/HEAD -> origin/main" keep only their name.
func parseRemoteBranchList(out string) []string {
	var branches []string
	for _, line := range splitLines(out) {
		name, _, _ := strings.Cut(line, " -> ")
		name = strings.TrimSpace(name)
		if name == "" || isPseudoBranch(name) {
			continue
		}
		branches = append(branches, name)
	}
	return branches
}
