package kmain

import (
	"debugcon/device"
	"debugcon/device/tty"
	"debugcon/device/video/console"
	"debugcon/kernel"
	"debugcon/kernel/hal"
	"debugcon/kernel/kfmt"
)

var (
	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}
)

// Kmain is the kernel entrypoint. It registers the VGA text console found
// at fbPhysAddr, runs hardware detection and prints the boot banner on the
// console that hal attached. Passing a zero address skips the VGA console
// so that only previously registered drivers are probed.
//
// Kmain is not expected to return. If hardware detection fails or the end
// of Kmain is reached the system panics.
//
//go:noinline
func Kmain(fbPhysAddr uintptr) {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderHardware,
		Probe: console.ProbeVgaText(fbPhysAddr),
	})

	if err := hal.DetectHardware(tty.OverflowScroll); err != nil {
		Panic(err)
		return
	}

	cons := hal.ActiveConsole()
	width, height := hal.ActiveSurface().Dimensions()

	prev := cons.SetColor(console.MakeAttr(console.LightGreen, console.Black))
	cons.Printf("Starting debugcon (%dx%d text console)\n", kfmt.Int(int64(width)), kfmt.Int(int64(height)))
	cons.SetColor(prev)

	Panic(errKmainReturned)
}
