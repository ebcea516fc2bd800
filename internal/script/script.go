// Package script runs Lua programs that drive a debug console.
//
// Scripts see a global "console" table:
//
//	console.putc(n|s)        write a byte (a number or the first byte of s)
//	console.puts(s)          write every byte of s
//	console.printf(fmt, ...) formatted output; returns the template length
//	console.color(attr)      set the attribute; returns the previous one
//	console.gotoxy(x, y)     move the cursor
//	console.clear(attr)      blank the surface and home the cursor
//	console.cursor()         returns x, y
//
// The global print function writes to the console as well.
package script

import (
	"context"
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"debugcon/device/tty"
	"debugcon/kernel/kfmt"
)

const consoleTable = "console"

// Engine is a Lua interpreter bound to a console. It is not safe for
// concurrent use.
type Engine struct {
	state *lua.LState
	con   *tty.Console
}

// New returns an Engine whose scripts write to con. Only the base, table,
// string and math libraries are available to scripts.
func New(con *tty.Console) *Engine {
	e := &Engine{
		state: lua.NewState(lua.Options{SkipOpenLibs: true}),
		con:   con,
	}

	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		e.state.Push(e.state.NewFunction(lib.open))
		e.state.Push(lua.LString(lib.name))
		e.state.Call(1, 0)
	}

	tbl := e.state.NewTable()
	e.state.SetFuncs(tbl, map[string]lua.LGFunction{
		"putc":   e.putc,
		"puts":   e.puts,
		"printf": e.printf,
		"color":  e.color,
		"gotoxy": e.gotoxy,
		"clear":  e.clear,
		"cursor": e.cursor,
	})
	e.state.SetGlobal(consoleTable, tbl)
	e.state.SetGlobal("print", e.state.NewFunction(e.print))

	return e
}

// Close releases the interpreter.
func (e *Engine) Close() {
	e.state.Close()
}

// RunString executes src. Cancelling ctx aborts the script.
func (e *Engine) RunString(ctx context.Context, src string) error {
	e.state.SetContext(ctx)
	defer e.state.RemoveContext()

	if err := e.state.DoString(src); err != nil {
		return fmt.Errorf("run script: %w", err)
	}

	return nil
}

// RunFile executes the script stored at path. Cancelling ctx aborts the
// script.
func (e *Engine) RunFile(ctx context.Context, path string) error {
	slog.DebugContext(ctx, "running script", slog.String("path", path))

	e.state.SetContext(ctx)
	defer e.state.RemoveContext()

	if err := e.state.DoFile(path); err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}

	return nil
}

func (e *Engine) putc(L *lua.LState) int {
	switch v := L.CheckAny(1).(type) {
	case lua.LNumber:
		e.con.PutChar(byte(int64(v)))
	case lua.LString:
		if len(v) != 0 {
			e.con.PutChar(v[0])
		}
	default:
		L.ArgError(1, "number or string expected, got "+v.Type().String())
	}

	return 0
}

func (e *Engine) puts(L *lua.LState) int {
	e.con.PutString([]byte(L.CheckString(1)))
	return 0
}

func (e *Engine) printf(L *lua.LState) int {
	var (
		template = L.CheckString(1)
		top      = L.GetTop()
		args     = make([]kfmt.Arg, 0, top)
	)

	for i := 2; i <= top; i++ {
		args = append(args, toArg(L, i))
	}

	n, err := e.con.Printf(template, args...)
	if err != nil {
		L.RaiseError("printf: %s at offset %d", err.Error(), n)
		return 0
	}

	L.Push(lua.LNumber(n))
	return 1
}

// toArg converts the Lua value at index i to a formatter argument.
func toArg(L *lua.LState, i int) kfmt.Arg {
	switch v := L.Get(i).(type) {
	case lua.LNumber:
		return kfmt.Int(int64(v))
	case lua.LString:
		return kfmt.Text(string(v))
	case lua.LBool:
		if v {
			return kfmt.Int(1)
		}
		return kfmt.Int(0)
	case *lua.LNilType:
		return kfmt.NilText()
	default:
		L.ArgError(i, "unsupported argument type "+v.Type().String())
		return kfmt.Arg{}
	}
}

func (e *Engine) color(L *lua.LState) int {
	prev := e.con.SetColor(uint8(L.CheckInt(1)))
	L.Push(lua.LNumber(prev))
	return 1
}

func (e *Engine) gotoxy(L *lua.LState) int {
	e.con.GotoXY(checkUint32(L, 1), checkUint32(L, 2))
	return 0
}

func (e *Engine) clear(L *lua.LState) int {
	e.con.ClearScreen(uint8(L.CheckInt(1)))
	return 0
}

func (e *Engine) cursor(L *lua.LState) int {
	x, y := e.con.CursorPosition()
	L.Push(lua.LNumber(x))
	L.Push(lua.LNumber(y))
	return 2
}

func (e *Engine) print(L *lua.LState) int {
	top := L.GetTop()
	for i := 1; i <= top; i++ {
		if i > 1 {
			e.con.PutChar('\t')
		}
		e.con.PutString([]byte(L.ToStringMeta(L.Get(i)).String()))
	}
	e.con.PutChar('\n')

	return 0
}

// checkUint32 reads a non-negative integer argument.
func checkUint32(L *lua.LState, i int) uint32 {
	v := L.CheckInt64(i)
	if v < 0 {
		L.ArgError(i, "non-negative number expected")
	}

	return uint32(v)
}
