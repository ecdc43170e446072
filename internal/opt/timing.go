package opt

import "time"

// WallTime returns the wall-clock time in seconds with sub-second resolution.
func WallTime() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
