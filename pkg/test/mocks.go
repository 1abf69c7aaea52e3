package test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"rig/pkg/log"
)

// MockCommandRunner is a shared mock implementation of system.CommandRunner.
// It tracks executed commands and allows setting up responses and errors.
type MockCommandRunner struct {
	mu        sync.Mutex
	Commands  []string          // Executed commands, in order
	Responses map[string][]byte // Response by exact command
	Errors    map[string]error  // Error by exact command
	// OnRun, when set, is invoked for every command before the canned
	// response is returned. Tests use it to simulate side effects of
	// external tools (e.g. an archive extraction populating a directory).
	OnRun func(command string)
}

// NewMockCommandRunner creates a MockCommandRunner with initialized maps.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		Responses: make(map[string][]byte),
		Errors:    make(map[string]error),
	}
}

// Run records the command and returns any configured response or error.
func (r *MockCommandRunner) Run(_ context.Context, command string) ([]byte, error) {
	r.mu.Lock()
	r.Commands = append(r.Commands, command)
	r.mu.Unlock()

	if r.OnRun != nil {
		r.OnRun(command)
	}
	if err, ok := r.Errors[command]; ok {
		return nil, err
	}
	return r.Responses[command], nil
}

// SetResponse configures the output returned for a command.
func (r *MockCommandRunner) SetResponse(command string, response []byte) {
	r.Responses[command] = response
}

// SetError configures the error returned for a command.
func (r *MockCommandRunner) SetError(command string, err error) {
	r.Errors[command] = err
}

// Ran reports whether any executed command contains the substring.
func (r *MockCommandRunner) Ran(substring string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cmd := range r.Commands {
		if strings.Contains(cmd, substring) {
			return true
		}
	}
	return false
}

// Reset clears tracked commands and configured behavior.
func (r *MockCommandRunner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commands = nil
	r.Responses = make(map[string][]byte)
	r.Errors = make(map[string]error)
	r.OnRun = nil
}

// MockLookPath builds a system.LookPath-compatible func that knows only
// the given tools.
func MockLookPath(tools map[string]string) func(string) (string, error) {
	return func(tool string) (string, error) {
		if path, ok := tools[tool]; ok {
			return path, nil
		}
		return "", &toolNotFoundError{tool: tool}
	}
}

type toolNotFoundError struct{ tool string }

func (e *toolNotFoundError) Error() string {
	return "executable file not found in $PATH: " + e.tool
}

// MockLogger captures log lines for verification.
type MockLogger struct {
	Messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (l *MockLogger) Debug(msg string, args ...any) { l.capture("DEBUG", msg, args) }
func (l *MockLogger) Info(msg string, args ...any)  { l.capture("INFO", msg, args) }
func (l *MockLogger) Warn(msg string, args ...any)  { l.capture("WARN", msg, args) }
func (l *MockLogger) Error(msg string, args ...any) { l.capture("ERROR", msg, args) }

func (l *MockLogger) capture(level, msg string, args []any) {
	var sb strings.Builder
	sb.WriteString(level)
	sb.WriteString(": ")
	sb.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		sb.WriteString(" ")
		if key, ok := args[i].(string); ok {
			sb.WriteString(key)
		}
		sb.WriteString("=")
		sb.WriteString(stringify(args[i+1]))
	}
	l.Messages = append(l.Messages, sb.String())
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case error:
		return val.Error()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// HasMessage checks if any captured message contains the substring.
func (l *MockLogger) HasMessage(substring string) bool {
	for _, msg := range l.Messages {
		if strings.Contains(msg, substring) {
			return true
		}
	}
	return false
}

// Reset clears all captured messages.
func (l *MockLogger) Reset() {
	l.Messages = nil
}

var _ log.Logger = (*MockLogger)(nil)
