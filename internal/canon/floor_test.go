package canon

import "testing"

func TestFloorPriority(t *testing.T) {
	tests := []struct {
		shortName string
		want      int
	}{
		{"b1", -1},
		{"Level B1", -1},
		{"b2", -2},
		{"b3", -3},
		{"Ground Floor", 0},
		{"Lower Ground", -1},
		{"Basement", -1},
		{"1st Floor", 1},
		{"2nd Floor", 2},
		{"3rd Floor", 3},
		{"4th Floor", 4},
		{"12th Floor", 12},
		{"5", 5},
		{"First", 1},
		{"Second Floor", 2},
		{"Tenth", 10},
		{"Mezzanine", UnrankedFloor},
		{"Reading Room", UnrankedFloor},
		{"", UnrankedFloor},
	}

	for _, tt := range tests {
		t.Run(tt.shortName, func(t *testing.T) {
			if got := FloorPriority(tt.shortName); got != tt.want {
				t.Errorf("FloorPriority(%q) = %d, want %d", tt.shortName, got, tt.want)
			}
		})
	}
}

// Basement order: deeper levels sort before shallower ones, all before ground.
func TestFloorPriority_BasementOrdering(t *testing.T) {
	if !(FloorPriority("b3") < FloorPriority("b2") &&
		FloorPriority("b2") < FloorPriority("b1") &&
		FloorPriority("b1") < FloorPriority("ground")) {
		t.Error("basement floors do not order below ground")
	}
}
