package testutil

import (
	"context"
	"fmt"
	"io"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/jmgilman/gitsession/exec"
)

var _ exec.Executor = (*FakeExecutor)(nil)

// Call records one Run on a FakeExecutor.
type Call struct {
	Args  []string
	Dir   string
	Env   map[string]string
	Stdin string
}

// CommandLine returns the arguments joined with spaces.
func (c Call) CommandLine() string {
	return strings.Join(c.Args, " ")
}

// Response is the scripted outcome of a command. A non-zero ExitCode or a
// non-nil Err makes Run fail with an *exec.ExecError.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// FakeExecutor is an exec.Executor that never starts a process. Commands
// are matched against scripted responses by exact command line first and
// then by the longest registered prefix. Unmatched commands succeed with no
// output. Clones share the script and the call log.
type FakeExecutor struct {
	shared *fakeState

	ctx   context.Context
	dir   string
	env   map[string]string
	stdin io.Reader
}

type fakeState struct {
	mu       sync.Mutex
	exact    map[string][]Response
	prefixes map[string][]Response
	calls    []Call
}

// NewFakeExecutor returns a FakeExecutor that already answers `git --version`
// with TestGitVersionOutput.
func NewFakeExecutor() *FakeExecutor {
	f := &FakeExecutor{
		shared: &fakeState{
			exact:    make(map[string][]Response),
			prefixes: make(map[string][]Response),
		},
		env: make(map[string]string),
	}
	f.On("git --version", Response{Stdout: TestGitVersionOutput})
	return f
}

// On scripts the response for an exact command line such as
// "git symbolic-ref --short HEAD". Registering several responses for the
// same command line plays them in order; the last one repeats.
func (f *FakeExecutor) On(commandLine string, responses ...Response) *FakeExecutor {
	f.shared.mu.Lock()
	defer f.shared.mu.Unlock()
	f.shared.exact[commandLine] = responses
	return f
}

// OnPrefix scripts the response for every command line starting with prefix.
func (f *FakeExecutor) OnPrefix(prefix string, responses ...Response) *FakeExecutor {
	f.shared.mu.Lock()
	defer f.shared.mu.Unlock()
	f.shared.prefixes[prefix] = responses
	return f
}

// Calls returns every recorded Run in order.
func (f *FakeExecutor) Calls() []Call {
	f.shared.mu.Lock()
	defer f.shared.mu.Unlock()
	return append([]Call(nil), f.shared.calls...)
}

// CommandLines returns the command line of every recorded Run in order.
func (f *FakeExecutor) CommandLines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.CommandLine()
	}
	return lines
}

// Reset clears the call log but keeps the script.
func (f *FakeExecutor) Reset() {
	f.shared.mu.Lock()
	defer f.shared.mu.Unlock()
	f.shared.calls = nil
}

// The With methods record per-call state on f and return it, so the
// next Run sees it. Timeouts and output streaming are ignored.
func (f *FakeExecutor) WithEnv(env map[string]string) exec.Executor {
	maps.Copy(f.env, env)
	return f
}

func (f *FakeExecutor) WithDir(dir string) exec.Executor {
	f.dir = dir
	return f
}

func (f *FakeExecutor) WithContext(ctx context.Context) exec.Executor {
	f.ctx = ctx
	return f
}

func (f *FakeExecutor) WithTimeout(time.Duration) exec.Executor { return f }
func (f *FakeExecutor) WithInheritEnv() exec.Executor            { return f }
func (f *FakeExecutor) WithStdout(io.Writer) exec.Executor       { return f }
func (f *FakeExecutor) WithStderr(io.Writer) exec.Executor       { return f }
func (f *FakeExecutor) WithPassthrough() exec.Executor           { return f }

func (f *FakeExecutor) WithStdin(r io.Reader) exec.Executor {
	f.stdin = r
	return f
}

// Run records the call and returns its scripted response.
func (f *FakeExecutor) Run(args ...string) (*exec.Result, error) {
	call := Call{
		Args: append([]string(nil), args...),
		Dir:  f.dir,
		Env:  maps.Clone(f.env),
	}
	if f.stdin != nil {
		data, err := io.ReadAll(f.stdin)
		if err != nil {
			return nil, err
		}
		call.Stdin = string(data)
	}
	ctx := f.ctx
	f.dir, f.stdin, f.ctx = "", nil, nil
	f.env = make(map[string]string)

	f.shared.mu.Lock()
	f.shared.calls = append(f.shared.calls, call)
	resp := f.shared.lookup(call.CommandLine())
	f.shared.mu.Unlock()

	if ctx != nil && ctx.Err() != nil {
		return &exec.Result{ExitCode: -1}, &exec.ExecError{Command: call.Args, ExitCode: -1, Err: ctx.Err()}
	}

	result := &exec.Result{
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
		Combined: resp.Stdout + resp.Stderr,
		ExitCode: resp.ExitCode,
	}
	if resp.ExitCode == 0 && resp.Err == nil {
		return result, nil
	}

	err := resp.Err
	if err == nil {
		err = fmt.Errorf("exit status %d", resp.ExitCode)
	}
	return result, &exec.ExecError{
		Command:  call.Args,
		ExitCode: resp.ExitCode,
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
		Err:      err,
	}
}

// Clone returns an executor sharing the script and call log.
func (f *FakeExecutor) Clone() exec.Executor {
	return &FakeExecutor{
		shared: f.shared,
		env:    make(map[string]string),
	}
}

// lookup must be called with mu held.
func (s *fakeState) lookup(line string) Response {
	if responses, ok := s.exact[line]; ok {
		return s.next(s.exact, line, responses)
	}

	best := ""
	for prefix := range s.prefixes {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best != "" {
		return s.next(s.prefixes, best, s.prefixes[best])
	}
	return Response{}
}

func (s *fakeState) next(m map[string][]Response, key string, responses []Response) Response {
	if len(responses) == 0 {
		return Response{}
	}
	if len(responses) > 1 {
		m[key] = responses[1:]
	}
	return responses[0]
}
