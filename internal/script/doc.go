// Package script provides commands written in Lua.
//
// A State is a sandboxed gopher-lua interpreter: only the base, table,
// string and math libraries are opened, and functions that load code from
// files or strings at run time are removed. A Command calls one global Lua
// function per Apply. The target is handed to the function through a
// Bridge, and the function's return value is written back through the same
// Bridge:
//
//	state, _ := script.NewState()
//	state.DoString(`function shout(text) return string.upper(text) end`)
//
//	eng.Execute(script.NewCommand(state, document.LuaBridge{}, "shout", "shout"))
//
// gopher-lua states are not goroutine-safe; State serializes every call.
package script
