package reader

import (
	"errors"
	"fmt"
)

// ErrInvalidChapterIndex is returned by GoTo for indices outside [0, Len()).
var ErrInvalidChapterIndex = errors.New("invalid chapter index")

// Navigator holds the current chapter index of an open book. Every successful
// move invokes the scroll hook so the main pane starts at the top.
type Navigator struct {
	index  int
	length int
	scroll func()
}

// NewNavigator creates a navigator over length chapters positioned at 0.
// scroll may be nil.
func NewNavigator(length int, scroll func()) *Navigator {
	return &Navigator{length: max(length, 0), scroll: scroll}
}

// Reset repositions the navigator at 0 over a freshly loaded book.
func (n *Navigator) Reset(length int) {
	n.length = max(length, 0)
	n.index = 0
}

// OnScroll replaces the scroll-to-top hook.
func (n *Navigator) OnScroll(fn func()) {
	n.scroll = fn
}

func (n *Navigator) Index() int { return n.index }

func (n *Navigator) Len() int { return n.length }

// CanPrevious reports whether Previous would move.
func (n *Navigator) CanPrevious() bool {
	return n.index > 0
}

// CanNext reports whether Next would move.
func (n *Navigator) CanNext() bool {
	return n.index < n.length-1
}

// GoTo moves to an absolute index. Out-of-range indices are rejected and
// leave the current index untouched.
func (n *Navigator) GoTo(index int) error {
	if index < 0 || index >= n.length {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidChapterIndex, index, n.length)
	}
	n.move(index)
	return nil
}

// Previous moves back one chapter. It reports whether the index changed.
func (n *Navigator) Previous() bool {
	if !n.CanPrevious() {
		return false
	}
	n.move(n.index - 1)
	return true
}

// Next moves forward one chapter. It reports whether the index changed.
func (n *Navigator) Next() bool {
	if !n.CanNext() {
		return false
	}
	n.move(n.index + 1)
	return true
}

func (n *Navigator) move(index int) {
	n.index = index
	if n.scroll != nil {
		n.scroll()
	}
}
