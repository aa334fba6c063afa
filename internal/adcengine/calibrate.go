package adcengine

import "time"

// Calibrate samples the sensors calibSamples times while the mouthpiece is
// expected to be idle, averages the left/right and up/down differences, and
// adopts them as the new zero-point offsets (spec §4.1: "8-sample average,
// 10-retry loop, ±1000 bound, rate-limited"). Calling it again before
// calibLockTime has elapsed since the last successful attempt is a no-op.
func (e *Engine) Calibrate() error {
	e.offsetMu.Lock()
	if time.Since(e.lastCalibrate) < calibLockTime {
		e.offsetMu.Unlock()
		return nil
	}
	e.offsetMu.Unlock()

	for attempt := 0; attempt < calibMaxAttempts; attempt++ {
		offX, offY, ok := e.sampleOffsets()
		if !ok {
			continue
		}
		if offX > calibMaxOffset || offX < -calibMaxOffset || offY > calibMaxOffset || offY < -calibMaxOffset {
			continue
		}

		e.offsetMu.Lock()
		e.offsetX, e.offsetY = offX, offY
		e.lastCalibrate = time.Now()
		e.offsetMu.Unlock()
		return nil
	}
	e.logger.Warn("adc: calibration did not converge", "attempts", calibMaxAttempts)
	return ErrCalibrationFailed
}

func (e *Engine) sampleOffsets() (offX, offY int, ok bool) {
	var sumLR, sumUD int
	for i := 0; i < calibSamples; i++ {
		s, err := e.source.ReadSample()
		if err != nil {
			return 0, 0, false
		}
		sumLR += int(s.Left) - int(s.Right)
		sumUD += int(s.Up) - int(s.Down)
	}
	return sumLR / calibSamples, sumUD / calibSamples, true
}
