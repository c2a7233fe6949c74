package play

import (
	"reflect"
	"testing"
)

func TestValidateAccepts(t *testing.T) {
	p := Play{White: []int{61, 7, 45, 14, 22}, Powerball: 9}
	if err := Validate(&p); err != nil {
		t.Fatalf("valid play rejected: %v", err)
	}
	want := []int{7, 14, 22, 45, 61}
	if !reflect.DeepEqual(p.White, want) {
		t.Errorf("white not sorted: %v", p.White)
	}
}

func TestValidatePowerballMayEqualWhite(t *testing.T) {
	p := Play{White: []int{7, 14, 22, 45, 61}, Powerball: 14}
	if err := Validate(&p); err != nil {
		t.Errorf("powerball equal to white ball must be legal: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		play Play
	}{
		{"too few white", Play{White: []int{1, 2, 3, 4}, Powerball: 5}},
		{"too many white", Play{White: []int{1, 2, 3, 4, 5, 6}, Powerball: 5}},
		{"duplicate white", Play{White: []int{1, 2, 3, 4, 4}, Powerball: 5}},
		{"white too high", Play{White: []int{1, 2, 3, 4, 70}, Powerball: 5}},
		{"white zero", Play{White: []int{0, 2, 3, 4, 5}, Powerball: 5}},
		{"powerball too high", Play{White: []int{1, 2, 3, 4, 5}, Powerball: 27}},
		{"powerball zero", Play{White: []int{1, 2, 3, 4, 5}, Powerball: 0}},
	}

	for _, tc := range cases {
		if err := Validate(&tc.play); err == nil {
			t.Errorf("%s: expected rejection", tc.name)
		}
	}
}

func TestValidateIdempotent(t *testing.T) {
	p := Play{White: []int{61, 7, 45, 14, 22}, Powerball: 26}
	if err := Validate(&p); err != nil {
		t.Fatal(err)
	}
	first := make([]int, 5)
	copy(first, p.White)

	if err := Validate(&p); err != nil {
		t.Fatalf("second validation failed: %v", err)
	}
	if !reflect.DeepEqual(p.White, first) {
		t.Errorf("validation not idempotent: %v vs %v", p.White, first)
	}
}
