// Package document provides a plain-text document whose edits are
// recorded by the history engine.
//
// A Document is the tracked value; Append, Insert, Delete and Replace are
// the commands that mutate it. Every command captures an Edit when it is
// applied, so it can also be inverted.
//
//	eng := engine.New(document.New(""))
//	eng.Execute(document.Append("Hello "))
//	eng.Execute(document.Append("world!"))
//	eng.Undo() // "Hello "
//
// Offsets are byte offsets into the UTF-8 text.
package document
