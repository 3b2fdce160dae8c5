package models

import "testing"

func TestPeriodsCount(t *testing.T) {
	p := Periods{Drought: 1, Rainy: 2, Optimal: 3, Unknown: 4}

	sum := 0
	for _, w := range Weathers {
		sum += p.Count(w)
	}
	if sum != p.Total() {
		t.Errorf("sum of Count over Weathers = %d, want %d", sum, p.Total())
	}
	if got := p.Count(Weather("hail")); got != 0 {
		t.Errorf("Count(hail) = %d, want 0", got)
	}
}
