package document

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Document is a mutable UTF-8 text.
// It is not safe for concurrent use; the engine serializes access.
type Document struct {
	text string
}

// New creates a document holding text.
func New(text string) *Document {
	return &Document{text: text}
}

// Clone returns an independent copy of the document.
func (d *Document) Clone() *Document {
	return &Document{text: d.text}
}

// Text returns the full text.
func (d *Document) Text() string {
	return d.text
}

// String implements fmt.Stringer.
func (d *Document) String() string {
	return d.text
}

// Len returns the length in bytes.
func (d *Document) Len() ByteOffset {
	return ByteOffset(len(d.text))
}

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int {
	return strings.Count(d.text, "\n") + 1
}

// TextRange returns the text in r.
func (d *Document) TextRange(r Range) (string, error) {
	if err := d.check(r); err != nil {
		return "", err
	}
	return d.text[r.Start:r.End], nil
}

// apply performs e, which must be valid for the current text.
func (d *Document) apply(e Edit) error {
	if err := d.check(e.Range); err != nil {
		return err
	}
	if got := d.text[e.Range.Start:e.Range.End]; got != e.OldText {
		return &ConflictError{Range: e.Range, Want: e.OldText, Got: got}
	}
	d.text = d.text[:e.Range.Start] + e.NewText + d.text[e.Range.End:]
	return nil
}

// check validates r against the current text. Both ends must fall on rune
// boundaries so edits keep the text valid UTF-8.
func (d *Document) check(r Range) error {
	if r.Start < 0 || r.End < r.Start || r.End > d.Len() {
		return &RangeError{Range: r, Len: d.Len()}
	}
	for _, off := range [2]ByteOffset{r.Start, r.End} {
		if off < d.Len() && !utf8.RuneStart(d.text[off]) {
			return fmt.Errorf("%w: offset %d", ErrSplitsRune, off)
		}
	}
	return nil
}
