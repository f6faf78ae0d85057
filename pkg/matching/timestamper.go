package matching

import "time"

// Timestamper supplies the nanosecond epoch used for every timestamped
// transition. Injected at book construction so tests can drive time.
type Timestamper interface {
	NanoEpoch() int64
}

// SystemTimestamper reads the wall clock.
type SystemTimestamper struct{}

func (SystemTimestamper) NanoEpoch() int64 {
	return time.Now().UnixNano()
}
