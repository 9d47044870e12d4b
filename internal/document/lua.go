package document

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// LuaBridge passes a Document to Lua scripts as a string. A script returns
// the new text to replace the document's contents.
type LuaBridge struct{}

// Push returns the document text.
func (LuaBridge) Push(_ *lua.LState, d *Document) lua.LValue {
	return lua.LString(d.text)
}

// Pull replaces the document text with result, which must be a string.
func (LuaBridge) Pull(_ *lua.LState, result lua.LValue, d *Document) error {
	s, ok := result.(lua.LString)
	if !ok {
		return fmt.Errorf("document script must return a string, got %s", result.Type())
	}
	d.text = string(s)
	return nil
}
