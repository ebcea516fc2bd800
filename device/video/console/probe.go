package console

import (
	"debugcon/device"
	"debugcon/kernel"
	"unsafe"
)

// VgaTextPhysAddr is the physical address of the color text mode
// framebuffer on PC-compatible hardware.
const VgaTextPhysAddr uintptr = 0xb8000

var (
	// ErrNoFramebuffer is returned when a console has no framebuffer address
	// to map.
	ErrNoFramebuffer = &kernel.Error{Module: "vga_text_console", Message: "no framebuffer address"}

	mapFramebufferFn = mapFramebuffer
)

// mapFramebuffer returns a view of cells 16-bit values located at physAddr.
// The platform layer is expected to have identity-mapped the region.
func mapFramebuffer(physAddr uintptr, cells uint32) ([]uint16, *kernel.Error) {
	if physAddr == 0 {
		return nil, ErrNoFramebuffer
	}

	return unsafe.Slice((*uint16)(unsafe.Pointer(physAddr)), cells), nil
}

// ProbeVgaText returns a probe function for an 80x25 text console whose
// framebuffer lives at fbPhysAddr. The probe reports no hardware when
// fbPhysAddr is zero.
func ProbeVgaText(fbPhysAddr uintptr) device.ProbeFn {
	return func() device.Driver {
		if fbPhysAddr == 0 {
			return nil
		}

		return NewVgaTextConsole(DefaultColumns, DefaultRows, fbPhysAddr)
	}
}

// ProbeBuffer returns a probe function for an in-memory 80x25 text console.
// It always succeeds and is used as the fallback when no display hardware
// is present.
func ProbeBuffer() device.ProbeFn {
	return func() device.Driver {
		return NewBufferConsole(DefaultColumns, DefaultRows)
	}
}
