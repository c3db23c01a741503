package planner

import (
	"encoding/json"
	"sort"

	"github.com/christopherklint97/semplan/internal/semester"
)

// Snapshot is an immutable deep copy of the planner's date -> slots state.
// Dates without slots are omitted.
type Snapshot struct {
	slots map[semester.Date][]Slot
}

// NewSnapshot copies slots into a snapshot.
func NewSnapshot(slots map[semester.Date][]Slot) Snapshot {
	out := make(map[semester.Date][]Slot, len(slots))
	for d, s := range slots {
		if len(s) > 0 {
			out[d] = cloneSlots(s)
		}
	}
	return Snapshot{slots: out}
}

// Dates lists the dates holding slots, in order.
func (s Snapshot) Dates() []semester.Date {
	out := make([]semester.Date, 0, len(s.slots))
	for d := range s.slots {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (s Snapshot) Slots(d semester.Date) []Slot {
	return cloneSlots(s.slots[d])
}

// Len is the number of slots in the snapshot.
func (s Snapshot) Len() int {
	n := 0
	for _, slots := range s.slots {
		n += len(slots)
	}
	return n
}

// Equal compares two snapshots date by date, slot order included.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s.slots) != len(o.slots) {
		return false
	}
	for d, a := range s.slots {
		b, ok := o.slots[d]
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
	}
	return true
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s.slots == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.slots)
}

func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var slots map[semester.Date][]Slot
	if err := json.Unmarshal(b, &slots); err != nil {
		return err
	}
	*s = NewSnapshot(slots)
	return nil
}
