package model

import "testing"

func TestShiftTemplateHasFixedDate(t *testing.T) {
	cases := []struct {
		name string
		s    ShiftTemplate
		want bool
	}{
		{"weekday mask only", ShiftTemplate{Weekdays: []int{1, 2, 3, 4, 5}}, false},
		{"fixed date only", ShiftTemplate{FixedDate: "2025-11-16"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.s.HasFixedDate(); got != tc.want {
				t.Errorf("HasFixedDate() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScheduleAssign(t *testing.T) {
	s := make(Schedule)
	s.Assign("e1", "2025-04-07", "M")
	s.Assign("e1", "2025-04-07", "A")
	s.Assign("e2", "2025-04-07", "M")

	if got := s["e1"]["2025-04-07"]; len(got) != 2 || got[0] != "M" || got[1] != "A" {
		t.Errorf("unexpected assignments for e1: %v", got)
	}
	if got := s["e2"]["2025-04-07"]; len(got) != 1 || got[0] != "M" {
		t.Errorf("unexpected assignments for e2: %v", got)
	}
}
