package domain

import "fmt"

// Snapshot files carry enums as short string tokens, not raw ints.

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "home":
		*s = Home
	case "away":
		*s = Away
	default:
		return fmt.Errorf("unknown side %q", b)
	}
	return nil
}

func (p Point) MarshalText() ([]byte, error) {
	if p < Love || p > Advantage {
		return nil, fmt.Errorf("invalid point value %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Point) UnmarshalText(b []byte) error {
	for i, name := range pointNames {
		if name == string(b) {
			*p = Point(i)
			return nil
		}
	}
	return fmt.Errorf("unknown point %q", b)
}

func (st Status) MarshalText() ([]byte, error) {
	return []byte(st.String()), nil
}

func (st *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "in_progress":
		*st = InProgress
	case "completed":
		*st = Completed
	default:
		return fmt.Errorf("unknown match status %q", b)
	}
	return nil
}
