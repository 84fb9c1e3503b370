package mode

import "errors"

// Mode is the top-level UI context of a session.
type Mode string

const (
	User     Mode = "user"
	Business Mode = "business"
)

// StorageKey is the local storage key holding the persisted mode.
const StorageKey = "currentMode"

var (
	ErrInvalidMode = errors.New("invalid mode")
	ErrStorage     = errors.New("mode storage failure")
	// ErrSwitchForbidden is wrapped by gates that refuse a mode switch.
	ErrSwitchForbidden = errors.New("mode switch forbidden")
)

// Parse accepts exactly "user" or "business".
func Parse(s string) (Mode, bool) {
	switch Mode(s) {
	case User, Business:
		return Mode(s), true
	}
	return "", false
}

// Other returns the opposite mode.
func (m Mode) Other() Mode {
	if m == Business {
		return User
	}
	return Business
}
