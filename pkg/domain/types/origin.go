package types

import "fmt"

// Origin records how an action item came into existence
type Origin string

const (
	OriginChat   Origin = "chat"
	OriginVoice  Origin = "voice"
	OriginManual Origin = "manual"
)

// IsValid checks if the origin is valid
func (o Origin) IsValid() bool {
	switch o {
	case OriginChat, OriginVoice, OriginManual:
		return true
	default:
		return false
	}
}

// String returns the string representation of the origin
func (o Origin) String() string {
	return string(o)
}

// ParseOrigin parses a string into an Origin. Empty input yields OriginChat.
func ParseOrigin(s string) (Origin, error) {
	if s == "" {
		return OriginChat, nil
	}
	o := Origin(s)
	if !o.IsValid() {
		return "", fmt.Errorf("invalid origin: %s", s)
	}
	return o, nil
}
