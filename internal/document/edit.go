package document

// ByteOffset is a byte position in a document.
type ByteOffset int

// Range is a half-open byte range [Start, End).
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

// IsEmpty returns true if the range covers no bytes.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Len returns the number of bytes covered.
func (r Range) Len() int {
	return int(r.End - r.Start)
}

// Edit is a single text change. It captures all information needed to
// apply or revert the change.
type Edit struct {
	Range   Range  // Range that was modified (in the original text)
	OldText string // Text that was replaced
	NewText string // Text that was inserted
}

// IsInsert returns true if this edit is a pure insertion.
func (e Edit) IsInsert() bool {
	return e.Range.IsEmpty() && len(e.NewText) > 0
}

// IsDelete returns true if this edit is a pure deletion.
func (e Edit) IsDelete() bool {
	return !e.Range.IsEmpty() && len(e.NewText) == 0
}

// IsReplace returns true if this edit replaces text.
func (e Edit) IsReplace() bool {
	return !e.Range.IsEmpty() && len(e.NewText) > 0
}

// IsNoop returns true if this edit makes no changes.
func (e Edit) IsNoop() bool {
	return e.Range.IsEmpty() && len(e.NewText) == 0
}

// BytesDelta returns the change in document length.
func (e Edit) BytesDelta() int {
	return len(e.NewText) - e.Range.Len()
}

// NewRange returns the range of the text after the edit.
func (e Edit) NewRange() Range {
	return Range{
		Start: e.Range.Start,
		End:   e.Range.Start + ByteOffset(len(e.NewText)),
	}
}

// Invert returns an edit that undoes this one.
func (e Edit) Invert() Edit {
	return Edit{
		Range:   e.NewRange(),
		OldText: e.NewText,
		NewText: e.OldText,
	}
}
