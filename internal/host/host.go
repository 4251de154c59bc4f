// Package host defines the evaluator's injection points into the
// embedding environment: stdout, stderr and file loading for imports.
// The three callables are exposed as an interface rather than bare
// func fields so both a CLI host and a buffering test host can satisfy
// it directly.
package host

import (
	"bytes"
	"fmt"
	"os"

	"github.com/quackscript/quack/internal/qerrors"
	"github.com/quackscript/quack/internal/value"
)

// Host is the façade the evaluator uses for all observable effects.
type Host interface {
	Stdout(text value.Text)
	Stderr(text value.Text)
	LoadFile(path string) (string, error)
}

// Console is the default host for the CLI/REPL: writes to the process
// stdout/stderr and loads files from the local filesystem.
type Console struct{}

func NewConsole() *Console { return &Console{} }

func (c *Console) Stdout(text value.Text) {
	fmt.Fprintln(os.Stdout, text.Value)
}

func (c *Console) Stderr(text value.Text) {
	fmt.Fprintln(os.Stderr, text.Value)
}

func (c *Console) LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var _ Host = (*Console)(nil)

// Buffer is a host that captures stdout/stderr in memory: a sensible
// default when no host is supplied, and the host used throughout the
// test suite. LoadFile always fails with ErrImportUnsupported unless
// Files is populated.
type Buffer struct {
	Out   bytes.Buffer
	Err   bytes.Buffer
	Files map[string]string
}

func NewBuffer() *Buffer {
	return &Buffer{Files: map[string]string{}}
}

func (b *Buffer) Stdout(text value.Text) {
	b.Out.WriteString(text.Value)
	b.Out.WriteByte('\n')
}

func (b *Buffer) Stderr(text value.Text) {
	b.Err.WriteString(text.Value)
	b.Err.WriteByte('\n')
}

func (b *Buffer) LoadFile(path string) (string, error) {
	if src, ok := b.Files[path]; ok {
		return src, nil
	}
	return "", qerrors.ErrImportUnsupported
}

var _ Host = (*Buffer)(nil)
