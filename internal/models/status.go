package models

import "fmt"

// GuessStatus is the server's judgment of a single guess.
type GuessStatus int

// StatusUnknown is the zero value; it never appears on the wire.
const (
	StatusUnknown GuessStatus = iota
	StatusWrong
	StatusClose
	StatusCorrect
	StatusFail
	StatusInvalid
)

var statusNames = map[GuessStatus]string{
	StatusWrong:   "wrong",
	StatusClose:   "close",
	StatusCorrect: "correct",
	StatusFail:    "fail",
	StatusInvalid: "invalid",
}

func (s GuessStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("GuessStatus(%d)", int(s))
}

// ParseGuessStatus maps a wire string onto a GuessStatus.
func ParseGuessStatus(s string) (GuessStatus, error) {
	switch s {
	case "wrong":
		return StatusWrong, nil
	case "close":
		return StatusClose, nil
	case "correct":
		return StatusCorrect, nil
	case "fail":
		return StatusFail, nil
	case "invalid":
		return StatusInvalid, nil
	}
	return 0, fmt.Errorf("unknown guess status %q", s)
}

// Counts reports whether a guess with this status consumes an attempt.
func (s GuessStatus) Counts() bool {
	return s != StatusInvalid
}

func (s GuessStatus) MarshalText() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown guess status %d", int(s))
	}
	return []byte(name), nil
}

func (s *GuessStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseGuessStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
