// Where: internal/infra/ui/deploy.go
// What: Emoji-aware UI for deploy output.
// Why: Keep deploy output readable while allowing emoji to be toggled.
package ui

import (
	"io"
)

// KeyValue is a key/value pair rendered inside a block.
type KeyValue struct {
	Key   string
	Value any
}

// UserInterface exposes the output surface used by the deploy workflow and its tools.
type UserInterface interface {
	Step(title string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Success(msg string)
	Block(emoji, title string, rows []KeyValue)
}

// NewDeployUI returns a UserInterface tailored for deploy output.
func NewDeployUI(out io.Writer, emojiEnabled bool) UserInterface {
	if out == nil {
		out = io.Discard
	}
	return deployUI{console: NewWithEmoji(out, emojiEnabled)}
}

// Discard returns a UserInterface that writes nothing.
func Discard() UserInterface {
	return NewDeployUI(io.Discard, false)
}

// OrDiscard returns u, or Discard when u is nil.
func OrDiscard(u UserInterface) UserInterface {
	if u == nil {
		return Discard()
	}
	return u
}

type deployUI struct {
	console *Console
}

func (d deployUI) Step(title string) {
	d.console.Step(title)
}

func (d deployUI) Info(msg string) {
	d.console.Info(msg)
}

func (d deployUI) Warn(msg string) {
	d.console.Warn(msg)
}

func (d deployUI) Error(msg string) {
	d.console.Error(msg)
}

func (d deployUI) Success(msg string) {
	d.console.Success(msg)
}

func (d deployUI) Block(emoji, title string, rows []KeyValue) {
	d.console.BlockStart(emoji, title)
	for _, kv := range rows {
		d.console.Item(kv.Key, kv.Value)
	}
	d.console.BlockEnd()
}
