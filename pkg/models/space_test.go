package models

import "testing"

func TestBandForOccupancy(t *testing.T) {
	tests := []struct {
		name string
		occ  int
		want AvailabilityBand
	}{
		{"empty", 0, BandHigh},
		{"just under low threshold", 32, BandHigh},
		{"lower bound of medium", 33, BandMedium},
		{"upper bound of medium", 66, BandMedium},
		{"just over medium", 67, BandLow},
		{"full", 100, BandLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BandForOccupancy(tt.occ); got != tt.want {
				t.Errorf("BandForOccupancy(%d) = %q, want %q", tt.occ, got, tt.want)
			}
		})
	}
}

func TestOccupancyPercent(t *testing.T) {
	tests := []struct {
		name  string
		total int
		free  int
		want  int
	}{
		{"no seat data", 0, 0, 0},
		{"all free", 80, 80, 0},
		{"all occupied", 80, 0, 100},
		{"spec example 63 of 140", 140, 77, 45},
		{"rounds half away from zero", 200, 99, 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OccupancyPercent(tt.total, tt.free); got != tt.want {
				t.Errorf("OccupancyPercent(%d, %d) = %d, want %d", tt.total, tt.free, got, tt.want)
			}
		})
	}
}

func TestStatsForComplement(t *testing.T) {
	s := StatsFor(120, 30)
	if s.OccupancyPct+s.AvailabilityPct != 100 {
		t.Errorf("occupancy %d + availability %d != 100", s.OccupancyPct, s.AvailabilityPct)
	}
	if s.OccupancyPct < 0 || s.OccupancyPct > 100 {
		t.Errorf("occupancy %d out of [0,100]", s.OccupancyPct)
	}
	if s.Band != BandLow {
		t.Errorf("Band = %q, want %q", s.Band, BandLow)
	}
}

func TestHasSeatData(t *testing.T) {
	if (SpaceRecord{TotalSeats: 0}).HasSeatData() {
		t.Error("TotalSeats 0 should report no seat data")
	}
	if !(SpaceRecord{TotalSeats: 1, FreeSeats: 1}).HasSeatData() {
		t.Error("TotalSeats 1 should report seat data")
	}
}
