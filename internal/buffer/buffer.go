// Package buffer holds the ordered reply fragments of a single session.
package buffer

import "slices"

// EmptyBufferError is returned by Last when the buffer holds no fragments.
type EmptyBufferError struct{}

func (*EmptyBufferError) Error() string {
	return "conversation buffer is empty"
}

// Buffer is an ordered, append-only sequence of reply fragments. It is cleared
// at the start of every request cycle and is owned by exactly one session.
// The zero value is an empty buffer ready to use.
type Buffer struct {
	fragments []string
}

// New returns a buffer pre-filled with fragments, in order.
func New(fragments ...string) *Buffer {
	return &Buffer{fragments: slices.Clone(fragments)}
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.fragments = nil
}

// Append adds a fragment to the end of the buffer.
func (b *Buffer) Append(fragment string) {
	b.fragments = append(b.fragments, fragment)
}

// All returns a copy of the fragments in the order they were appended.
func (b *Buffer) All() []string {
	return slices.Clone(b.fragments)
}

// Last returns the most recently appended fragment.
func (b *Buffer) Last() (string, error) {
	if len(b.fragments) == 0 {
		return "", &EmptyBufferError{}
	}
	return b.fragments[len(b.fragments)-1], nil
}

// Len returns the number of fragments.
func (b *Buffer) Len() int {
	return len(b.fragments)
}

// Empty reports whether the buffer has no fragments.
func (b *Buffer) Empty() bool {
	return len(b.fragments) == 0
}

// Replace swaps the content of the buffer for fragments. It is used to roll
// a failed cycle back to the fragments that preceded it.
func (b *Buffer) Replace(fragments []string) {
	b.fragments = slices.Clone(fragments)
}
