// Package command defines the tool invocation value handed to an external
// execution engine.
package command

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// ResponseFile describes how an executor may spill long argument lists.
type ResponseFile string

const (
	// ResponseFileNone means the tool does not read response files.
	ResponseFileNone ResponseFile = "none"
	// ResponseFileAtCurCP means @file in the current code page.
	ResponseFileAtCurCP ResponseFile = "at-file-cur-cp"
)

// Command is one tool invocation. Argument order is significant.
type Command struct {
	Executable   string       `json:"executable" msgpack:"executable"`
	Args         []string     `json:"args" msgpack:"args"`
	Inputs       []string     `json:"inputs,omitempty" msgpack:"inputs,omitempty"`
	Output       string       `json:"output,omitempty" msgpack:"output,omitempty"`
	ResponseFile ResponseFile `json:"response_file,omitempty" msgpack:"response_file,omitempty"`
}

// Argv returns the executable followed by the arguments.
func (c Command) Argv() []string {
	out := make([]string, 0, len(c.Args)+1)
	out = append(out, c.Executable)
	return append(out, c.Args...)
}

// Equal reports whether two commands invoke the same tool with the same
// arguments in the same order.
func (c Command) Equal(o Command) bool {
	return c.Executable == o.Executable &&
		slices.Equal(c.Args, o.Args) &&
		slices.Equal(c.Inputs, o.Inputs) &&
		c.Output == o.Output &&
		c.ResponseFile == o.ResponseFile
}

// Fingerprint hashes the executable and arguments. Identical invocations
// share a fingerprint.
func (c Command) Fingerprint() string {
	h := sha256.New()
	for _, a := range c.Argv() {
		_, _ = io.WriteString(h, a)
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// String renders the command as a POSIX shell line.
func (c Command) String() string {
	argv := c.Argv()
	parts := make([]string, len(argv))
	for i, a := range argv {
		parts[i] = Quote(a)
	}
	return strings.Join(parts, " ")
}

const shellSafe = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_./=+,:@%"

// Quote single-quotes s when it carries shell metacharacters.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !strings.ContainsRune(shellSafe, r) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// EncodeJSON writes cmds as an indented JSON array.
func EncodeJSON(w io.Writer, cmds ...Command) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if cmds == nil {
		cmds = []Command{}
	}
	if err := enc.Encode(cmds); err != nil {
		return fmt.Errorf("encode commands: %w", err)
	}
	return nil
}

// EncodeMsgpack writes cmds as a msgpack array for an external executor.
func EncodeMsgpack(w io.Writer, cmds ...Command) error {
	if cmds == nil {
		cmds = []Command{}
	}
	if err := msgpack.NewEncoder(w).Encode(cmds); err != nil {
		return fmt.Errorf("encode commands: %w", err)
	}
	return nil
}

// DecodeMsgpack reads commands written by EncodeMsgpack.
func DecodeMsgpack(r io.Reader) ([]Command, error) {
	var cmds []Command
	if err := msgpack.NewDecoder(r).Decode(&cmds); err != nil {
		return nil, fmt.Errorf("decode commands: %w", err)
	}
	return cmds, nil
}
