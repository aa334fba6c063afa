package usbbridge

import (
	"bufio"
	"fmt"
	"time"

	serial "github.com/daedaluz/goserial"
)

// OpenATSerial opens the UART AT surface described in spec §6: 115200 8N1,
// frames terminated by CR, LF, or CRLF.
func OpenATSerial(device string) (*serial.Port, error) {
	opts := serial.NewOptions().SetReadTimeout(250 * time.Millisecond)
	port, err := serial.Open(device, opts)
	if err != nil {
		return nil, fmt.Errorf("open at serial port %q: %w", device, err)
	}

	attrs, err := port.GetAttr2()
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("read termios: %w", err)
	}
	attrs.MakeRaw()
	attrs.Cflag &^= serial.CBAUD
	attrs.Cflag |= serial.B115200
	attrs.ISpeed = 115200
	attrs.OSpeed = 115200
	attrs.Cflag |= serial.CS8
	attrs.Cflag &^= serial.PARENB
	attrs.Cflag &^= serial.CSTOPB

	if err := port.SetAttr2(serial.TCSANOW, attrs); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set termios: %w", err)
	}
	return port, nil
}

// ATLineReader splits an io.Reader into AT frames terminated by CR, LF, or
// CRLF (spec §6).
type ATLineReader struct {
	scanner *bufio.Scanner
}

// NewATLineReader wraps r with a scanner that treats CR, LF, or CRLF as the
// frame terminator and drops empty frames produced by CRLF pairs.
func NewATLineReader(r *serial.Port) *ATLineReader {
	scanner := bufio.NewScanner(r)
	scanner.Split(scanLinesAnyNewline)
	return &ATLineReader{scanner: scanner}
}

// Next returns the next non-empty frame, or false at EOF/error.
func (l *ATLineReader) Next() (string, bool) {
	for l.scanner.Scan() {
		line := l.scanner.Text()
		if line != "" {
			return line, true
		}
	}
	return "", false
}

func scanLinesAnyNewline(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data {
		if b == '\n' || b == '\r' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
