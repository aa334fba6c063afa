//go:build linux

package gpio

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux GPIO chardev uapi (linux/gpio.h), handle-based request ioctls. Kept
// minimal: one line per handle request, no edge interrupts — polling suits
// the teacher's own tick-loop style (device/mouse/device.go's HandleTransfer)
// better than wiring epoll for what is, at most, a handful of buttons.
const (
	gpioHandleRequestInput     = 1 << 0
	gpioHandleRequestActiveLow = 1 << 2

	gpioGetLineHandleIoctl      = 0xc16cb403
	gpioHandleGetLineValuesIoctl = 0xc040b408
)

type gpioHandleRequest struct {
	lineOffsets   [64]uint32
	flags         uint32
	defaultValues [64]uint8
	consumerLabel [32]byte
	lines         uint32
	fd            int32
}

type gpioHandleData struct {
	values [64]uint8
}

type linuxLine struct {
	fd int
}

func openLineHandle(l Line) (lineHandle, error) {
	chipFd, err := unix.Open(l.Chip, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("gpio: open %s: %w", l.Chip, err)
	}
	defer unix.Close(chipFd)

	req := gpioHandleRequest{
		flags: gpioHandleRequestInput,
		lines: 1,
	}
	req.lineOffsets[0] = l.Offset
	if l.ActiveLow {
		req.flags |= gpioHandleRequestActiveLow
	}
	copy(req.consumerLabel[:], "flipcore")

	if err := ioctl(chipFd, gpioGetLineHandleIoctl, unsafe.Pointer(&req)); err != nil {
		return nil, fmt.Errorf("gpio: get line handle offset %d: %w", l.Offset, err)
	}
	return &linuxLine{fd: int(req.fd)}, nil
}

func (h *linuxLine) read() (bool, error) {
	var data gpioHandleData
	if err := ioctl(h.fd, gpioHandleGetLineValuesIoctl, unsafe.Pointer(&data)); err != nil {
		return false, fmt.Errorf("gpio: get line values: %w", err)
	}
	return data.values[0] != 0, nil
}

func (h *linuxLine) close() error {
	return unix.Close(h.fd)
}

func ioctl(fd int, request uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), request, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
