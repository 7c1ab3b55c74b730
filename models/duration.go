package models

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Duration is a [time.Duration] carried on the wire as an integer count of milliseconds.
type Duration time.Duration

const maxDurationMS = math.MaxInt64 / int64(time.Millisecond)

// Std returns d as a [time.Duration].
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, time.Duration(d).Milliseconds(), 10), nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}

	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("models: duration_ms %s is not an integer millisecond count", data)
	}
	if ms > maxDurationMS || ms < -maxDurationMS {
		return fmt.Errorf("models: duration_ms %d out of range", ms)
	}

	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}
