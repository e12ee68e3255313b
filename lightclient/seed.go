package lightclient

import "time"

// defaultSeed produces a non-reproducible seed for unseeded draws.
func defaultSeed() int64 {
	return time.Now().UnixNano()
}
