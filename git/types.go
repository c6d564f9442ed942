package git

import (
	"time"

	"github.com/Masterminds/semver/v3"
)

// RemoteName is the single remote a session tracks.
const RemoteName = "origin"

// DefaultCommandTimeout bounds every git invocation whose context carries no
// deadline of its own.
const DefaultCommandTimeout = 5 * time.Minute

// DefaultCredentialHelper is the helper installed by New unless overridden
// with WithCredentialHelper or disabled with WithoutCredentialHelper.
const DefaultCredentialHelper = "cache"

// DefaultCredentialHelperOptions are passed to DefaultCredentialHelper.
// The cache daemon keeps entries for a year.
var DefaultCredentialHelperOptions = []string{"--timeout=31536000"}

// MinimumVersion is the oldest git release a session accepts.
var MinimumVersion = semver.MustParse("2.16.0")

// Config is the identity a session is built from. Empty fields are read
// back from git's own configuration.
type Config struct {
	// Root is the working-copy root. Empty means `git rev-parse --show-toplevel`.
	Root string

	// URL is the remote URL registered as origin. Empty means the URL already
	// configured for origin.
	URL string

	// Username is approved into the credential store. Empty means user.name.
	Username string

	// Password is approved into the credential store. Empty means
	// user.password, and a missing value is not an error.
	Password string

	// Email is approved into the credential store. Empty means user.email.
	Email string
}

// CloneConfig describes a clone performed by Clone.
type CloneConfig struct {
	// Path is the destination directory.
	Path string

	// URL is the remote to clone. Credentials are embedded for https remotes.
	URL      string
	Username string
	Password string
	Email    string

	// Args are extra arguments passed to `git clone` before the URL.
	Args []string
}

// InitConfig describes a repository created by Init.
type InitConfig struct {
	// Path is the directory to initialize. Empty means the process working
	// directory.
	Path string

	// URL is registered as origin. Credentials are embedded for https remotes.
	URL      string
	Username string
	Password string
	Email    string

	// FetchArgs are passed to the initial `git fetch`.
	FetchArgs []string

	// PullArgs are passed to the initial `git pull --rebase`.
	PullArgs []string
}

// Protocol identifies how a remote URL is reached.
type Protocol string

const (
	ProtocolGit   Protocol = "git"
	ProtocolHTTP  Protocol = "http"
	ProtocolHTTPS Protocol = "https"
	ProtocolSSH   Protocol = "ssh"
	ProtocolFile  Protocol = "file"
)

// RemoteProtocols lists the recognized URL prefixes in match order.
// scp-like ssh remotes (user@host:path) are recognized separately.
var RemoteProtocols = []struct {
	Prefix   string
	Protocol Protocol
}{
	{"git://", ProtocolGit},
	{"http://", ProtocolHTTP},
	{"https://", ProtocolHTTPS},
	{"ssh://", ProtocolSSH},
	{"file:///", ProtocolFile},
	{"/", ProtocolFile},
	{`\`, ProtocolFile},
}

// Credential is one entry handed to a CredentialStore. Empty fields are
// omitted from the approval.
type Credential struct {
	Protocol string
	Host     string
	Username string
	Password string
	Email    string
}
