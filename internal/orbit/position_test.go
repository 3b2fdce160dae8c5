package orbit

import (
	"math"
	"testing"

	"github.com/lox/galaxyweather/internal/models"
)

func TestAngleOnDay(t *testing.T) {
	tests := []struct {
		name      string
		velocity  float64
		day       int
		clockwise bool
		want      float64
	}{
		{name: "clockwise start", velocity: 1, day: 0, clockwise: true, want: 0},
		{name: "clockwise first day", velocity: 1, day: 1, clockwise: true, want: 1},
		{name: "clockwise wraps", velocity: 3, day: 130, clockwise: true, want: 30},
		{name: "clockwise full turn", velocity: 5, day: 72, clockwise: true, want: 0},
		{name: "counter-clockwise start", velocity: 5, day: 0, clockwise: false, want: 0},
		{name: "counter-clockwise first day", velocity: 5, day: 1, clockwise: false, want: 355},
		{name: "counter-clockwise full turn", velocity: 5, day: 72, clockwise: false, want: 0},
		{name: "counter-clockwise negative raw", velocity: -5, day: 1, clockwise: false, want: 360},
		{name: "clockwise negative raw", velocity: -5, day: 1, clockwise: true, want: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngleOnDay(tt.velocity, tt.day, tt.clockwise)
			if got != tt.want {
				t.Errorf("AngleOnDay(%v, %d, %v) = %v, want %v", tt.velocity, tt.day, tt.clockwise, got, tt.want)
			}
		})
	}
}

func TestPositionOnDay(t *testing.T) {
	const eps = 1e-9

	tests := []struct {
		name      string
		velocity  float64
		day       int
		clockwise bool
		radius    float64
		want      models.Coordinate
	}{
		{name: "day zero on x axis", velocity: 1, day: 0, clockwise: true, radius: 500, want: models.Coordinate{X: 500, Y: 0}},
		{name: "quarter turn clockwise", velocity: 90, day: 1, clockwise: true, radius: 10, want: models.Coordinate{X: 0, Y: 10}},
		{name: "quarter turn counter-clockwise", velocity: 90, day: 1, clockwise: false, radius: 10, want: models.Coordinate{X: 0, Y: -10}},
		{name: "half turn", velocity: 180, day: 1, clockwise: false, radius: 2, want: models.Coordinate{X: -2, Y: 0}},
		{name: "zero radius stays at sun", velocity: 7, day: 13, clockwise: true, radius: 0, want: models.Coordinate{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PositionOnDay(tt.velocity, tt.day, tt.clockwise, tt.radius)
			if math.Abs(got.X-tt.want.X) > eps || math.Abs(got.Y-tt.want.Y) > eps {
				t.Errorf("PositionOnDay = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPositionOnDay_StationaryPlanet(t *testing.T) {
	for _, clockwise := range []bool{true, false} {
		start := PositionOnDay(0, 0, clockwise, 10)
		for day := 1; day < 400; day++ {
			if got := PositionOnDay(0, day, clockwise, 10); got != start {
				t.Fatalf("clockwise=%v day %d: position = %+v, want %+v", clockwise, day, got, start)
			}
		}
	}
}

func TestPositionOnDay_StaysOnOrbit(t *testing.T) {
	p := models.Planet{Name: "Betasoide", AngularVelocity: 3, IsClockwise: true, SolarRadius: 2000}
	for day := 0; day < 720; day++ {
		c := PlanetOnDay(p, day)
		if r := math.Hypot(c.X, c.Y); math.Abs(r-p.SolarRadius) > 1e-6 {
			t.Fatalf("day %d: radius = %v, want %v", day, r, p.SolarRadius)
		}
	}
}
