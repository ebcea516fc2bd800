package kmain

import (
	"debugcon/device/video/console"
	"debugcon/kernel"
	"debugcon/kernel/hal"
	"debugcon/kernel/kfmt"
)

var (
	// haltFn is mocked by tests.
	haltFn = halt

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}

	panicAttr = console.MakeAttr(console.White, console.Red)
)

// Panic outputs the supplied error (if not nil) to the active console and
// halts. Calls to Panic never return unless haltFn is replaced.
func Panic(e any) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		errRuntimePanic.Message = t
		err = errRuntimePanic
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	if cons := hal.ActiveConsole(); cons != nil {
		cons.SetColor(panicAttr)
		cons.Printf("\n-----------------------------------\n")
		if err != nil {
			cons.Printf("[%s] unrecoverable error: %s\n", kfmt.Text(err.Module), kfmt.Text(err.Message))
		}
		cons.Printf("*** kernel panic: system halted ***")
		cons.Printf("\n-----------------------------------\n")
	}

	haltFn()
}

// halt spins forever.
func halt() {
	for {
	}
}
