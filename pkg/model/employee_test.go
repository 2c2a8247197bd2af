package model

import "testing"

func TestEmployeeHasHoliday(t *testing.T) {
	e := &Employee{PersonalHolidays: []string{"2025-02-10", "2025-02-20"}}

	cases := []struct {
		name string
		date string
		want bool
	}{
		{"holiday present", "2025-02-10", true},
		{"holiday absent", "2025-02-11", false},
		{"empty date", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.HasHoliday(tc.date); got != tc.want {
				t.Errorf("HasHoliday(%q) = %v, want %v", tc.date, got, tc.want)
			}
		})
	}
}

func TestEmployeePrefersShift(t *testing.T) {
	e := &Employee{FavoriteShifts: []string{"T1", "T2"}}

	if !e.PrefersShift("T1") {
		t.Error("expected T1 to be a favorite shift")
	}
	if e.PrefersShift("T3") {
		t.Error("T3 should not be a favorite shift")
	}
}
