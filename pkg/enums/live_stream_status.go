package enums

import "fmt"

// LiveStreamStatus tracks a live-selling session.
type LiveStreamStatus string

const (
	LiveStreamStatusScheduled LiveStreamStatus = "scheduled"
	LiveStreamStatusLive      LiveStreamStatus = "live"
	LiveStreamStatusEnded     LiveStreamStatus = "ended"
)

var validLiveStreamStatuses = []LiveStreamStatus{
	LiveStreamStatusScheduled,
	LiveStreamStatusLive,
	LiveStreamStatusEnded,
}

// String implements fmt.Stringer.
func (l LiveStreamStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LiveStreamStatus.
func (l LiveStreamStatus) IsValid() bool {
	for _, candidate := range validLiveStreamStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLiveStreamStatus converts raw input into a LiveStreamStatus.
func ParseLiveStreamStatus(value string) (LiveStreamStatus, error) {
	for _, candidate := range validLiveStreamStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid live stream status %q", value)
}
