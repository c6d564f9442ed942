package exec

import (
	"io"
	"time"
)

// config separates global settings (fixed at New) from local settings
// (set through With* and cleared after every Run).
type config struct {
	globalEnv         map[string]string
	globalDir         string
	globalInheritEnv  bool
	globalPassthrough bool
	globalTimeout     time.Duration

	localEnv         map[string]string
	localDir         string
	localInheritEnv  *bool
	localPassthrough *bool
	localTimeout     *time.Duration
	localStdin       io.Reader
}

func newConfig() *config {
	return &config{
		globalEnv: make(map[string]string),
		localEnv:  make(map[string]string),
	}
}

// clone copies global and local settings. Stdin is not copied since a reader
// can only be consumed once.
func (c *config) clone() *config {
	clone := &config{
		globalEnv:         make(map[string]string, len(c.globalEnv)),
		globalDir:         c.globalDir,
		globalInheritEnv:  c.globalInheritEnv,
		globalPassthrough: c.globalPassthrough,
		globalTimeout:     c.globalTimeout,
		localEnv:          make(map[string]string, len(c.localEnv)),
		localDir:          c.localDir,
	}

	for k, v := range c.globalEnv {
		clone.globalEnv[k] = v
	}
	for k, v := range c.localEnv {
		clone.localEnv[k] = v
	}

	if c.localInheritEnv != nil {
		val := *c.localInheritEnv
		clone.localInheritEnv = &val
	}
	if c.localPassthrough != nil {
		val := *c.localPassthrough
		clone.localPassthrough = &val
	}
	if c.localTimeout != nil {
		val := *c.localTimeout
		clone.localTimeout = &val
	}

	return clone
}

// effectiveEnv merges global and local environment; local wins.
func (c *config) effectiveEnv() map[string]string {
	env := make(map[string]string, len(c.globalEnv)+len(c.localEnv))
	for k, v := range c.globalEnv {
		env[k] = v
	}
	for k, v := range c.localEnv {
		env[k] = v
	}
	return env
}

func (c *config) effectiveDir() string {
	if c.localDir != "" {
		return c.localDir
	}
	return c.globalDir
}

func (c *config) effectiveInheritEnv() bool {
	if c.localInheritEnv != nil {
		return *c.localInheritEnv
	}
	return c.globalInheritEnv
}

func (c *config) effectivePassthrough() bool {
	if c.localPassthrough != nil {
		return *c.localPassthrough
	}
	return c.globalPassthrough
}

func (c *config) effectiveTimeout() time.Duration {
	if c.localTimeout != nil {
		return *c.localTimeout
	}
	return c.globalTimeout
}

// resetLocal must run after every Run so local settings do not leak.
func (c *config) resetLocal() {
	c.localEnv = make(map[string]string)
	c.localDir = ""
	c.localInheritEnv = nil
	c.localPassthrough = nil
	c.localTimeout = nil
	c.localStdin = nil
}
