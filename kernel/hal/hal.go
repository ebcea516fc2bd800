package hal

import (
	"bytes"
	"debugcon/device"
	"debugcon/device/tty"
	"debugcon/device/video/console"
	"debugcon/kernel"
	"debugcon/kernel/kfmt"
	"sort"
)

// managedDevices contains the devices discovered by the HAL.
type managedDevices struct {
	activeConsole *tty.Console
	activeSurface console.Surface

	// activeDrivers tracks all initialized device drivers.
	activeDrivers []device.Driver
}

var (
	// ErrNoSurface is returned by DetectHardware when none of the probed
	// drivers provides a console surface.
	ErrNoSurface = &kernel.Error{Module: "hal", Message: "no console surface detected"}

	driverListFn = device.DriverList

	devices managedDevices
	strBuf  bytes.Buffer
)

// ActiveConsole returns the console created by the last DetectHardware call.
func ActiveConsole() *tty.Console {
	return devices.activeConsole
}

// ActiveSurface returns the surface attached to the active console.
func ActiveSurface() console.Surface {
	return devices.activeSurface
}

// ActiveDrivers returns the drivers that were successfully initialized.
func ActiveDrivers() []device.Driver {
	return devices.activeDrivers
}

// DetectHardware probes the registered drivers in detection order and
// initializes the ones whose hardware is present. See DetectConsole.
func DetectHardware(overflow tty.OverflowPolicy) *kernel.Error {
	return DetectConsole(overflow, driverListFn())
}

// DetectConsole probes drivers in detection order. Driver messages are
// logged to a new console which gets attached to the first initialized
// surface; the buffered boot log is then replayed onto that surface.
//
// If no surface is found the console stays detached and keeps buffering its
// output; DetectConsole returns ErrNoSurface in that case.
func DetectConsole(overflow tty.OverflowPolicy, drivers device.DriverInfoList) *kernel.Error {
	devices = managedDevices{
		activeConsole: tty.NewConsole(overflow),
	}

	// Sort by detection priority
	sort.Stable(drivers)

	probe(drivers)

	if devices.activeSurface == nil {
		return ErrNoSurface
	}

	return devices.activeConsole.Attach(devices.activeSurface)
}

// probe executes the probe function for each driver and invokes
// onDriverInit for each successfully initialized driver.
func probe(driverInfoList device.DriverInfoList) {
	var w = kfmt.PrefixWriter{Sink: devices.activeConsole}

	for _, info := range driverInfoList {
		drv := info.Probe()
		if drv == nil {
			continue
		}

		strBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&strBuf, "[hal] %s(%d.%d.%d): ",
			kfmt.Text(drv.DriverName()),
			kfmt.Int(int64(major)),
			kfmt.Int(int64(minor)),
			kfmt.Int(int64(patch)),
		)
		w.Reset(strBuf.Bytes())

		if err := drv.DriverInit(&w); err != nil {
			kfmt.Fprintf(&w, "init failed: %s\n", kfmt.Text(err.Message))
			continue
		}

		kfmt.Fprintf(&w, "initialized\n")
		onDriverInit(drv)
		devices.activeDrivers = append(devices.activeDrivers, drv)
	}
}

// onDriverInit is invoked by probe() whenever a piece of hardware is detected
// and successfully initialized. The first driver that provides a surface
// becomes the active surface.
func onDriverInit(drv device.Driver) {
	if surface, ok := drv.(console.Surface); ok && devices.activeSurface == nil {
		devices.activeSurface = surface
	}
}
