package seeder

import (
	"fmt"
	"strings"
)

// Mode is one of the numbered menu choices.
type Mode int

const (
	ModeUsers Mode = iota + 1
	ModeOrders
	ModeBoth
	ModeBulk
	ModeStats
)

var modeNames = map[Mode]string{
	ModeUsers:  "users",
	ModeOrders: "orders",
	ModeBoth:   "both",
	ModeBulk:   "bulk",
	ModeStats:  "stats",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Modes lists every mode in menu order.
func Modes() []Mode {
	return []Mode{ModeUsers, ModeOrders, ModeBoth, ModeBulk, ModeStats}
}

// ParseMode accepts a menu number ("1".."5") or a mode name.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes() {
		if s == fmt.Sprint(int(m)) || s == m.String() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid choice %q: expected 1-5 or one of users, orders, both, bulk, stats", s)
}

// Describe returns the menu line for m given the configured counts.
func (s *Seeder) Describe(m Mode) string {
	switch m {
	case ModeUsers:
		return fmt.Sprintf("Insert sample users (%d)", s.seed.SampleUsers)
	case ModeOrders:
		return fmt.Sprintf("Insert sample orders (%d)", s.seed.SampleOrders)
	case ModeBoth:
		return "Insert both users and orders"
	case ModeBulk:
		return fmt.Sprintf("Insert bulk data (%d users, %d orders)", s.seed.BulkUsers, s.seed.BulkOrders)
	case ModeStats:
		return "Show collection stats only"
	}
	return m.String()
}
