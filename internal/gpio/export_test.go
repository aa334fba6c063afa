package gpio

// stubOpenLineHandle substitutes openLine for the duration of a test,
// returning a restore func, so tests can exercise Run's poll loop without
// real gpiochip hardware.
func stubOpenLineHandle(fn func(Line) (lineHandle, error)) func() {
	orig := openLine
	openLine = fn
	return func() { openLine = orig }
}
