package models

import "testing"

func TestPassengerCapacity(t *testing.T) {
	cases := map[int]int{
		VehicleTypeSedan: 3,
		VehicleTypeSUV:   3,
		VehicleTypeMPV:   4,
		0:                0,
		99:               0,
	}
	for typeID, want := range cases {
		if got := PassengerCapacity(typeID); got != want {
			t.Fatalf("type %d: got %d, want %d", typeID, got, want)
		}
	}
}

func TestMergePassengers(t *testing.T) {
	got := MergePassengers([]string{" R001 ", "R002", "R001", ""}, "Tamu A, R002;Tamu B\nTamu A")
	want := "R001,R002,Tamu A,Tamu B"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	if got := MergePassengers(nil, ""); got != "" {
		t.Fatalf("empty input: got %q, want empty", got)
	}
}
