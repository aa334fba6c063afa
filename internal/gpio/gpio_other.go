//go:build !linux

package gpio

import "fmt"

// openLineHandle has no implementation off Linux; the button GPIO source is
// Linux-chardev-specific hardware, same as the teacher's own
// autoattach_windows.go / autoattach_linux.go split for platform-only
// capabilities.
func openLineHandle(l Line) (lineHandle, error) {
	return nil, fmt.Errorf("gpio: line polling is only implemented on linux")
}
