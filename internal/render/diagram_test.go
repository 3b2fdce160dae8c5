package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/lox/galaxyweather/internal/models"
)

func scene(w models.Weather) Scene {
	return Scene{
		Day: models.DayWeather{
			Day: 12,
			Planets: []models.PlanetPosition{
				{Name: "Ferengi", Coordinates: models.Coordinate{X: 489, Y: 104}},
				{Name: "Betasoide", Coordinates: models.Coordinate{X: 1176, Y: 1618}},
				{Name: "Vulcano", Coordinates: models.Coordinate{X: -1000, Y: 0}},
			},
			Weather: w,
		},
		Radii: []float64{500, 2000, 1000},
	}
}

func TestDraw(t *testing.T) {
	for _, w := range models.Weathers {
		t.Run(string(w), func(t *testing.T) {
			data, err := Draw(scene(w))
			if err != nil {
				t.Fatalf("Draw: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != Width || b.Dy() != Height {
				t.Errorf("bounds = %v, want %dx%d", b, Width, Height)
			}

			// The sun sits in the middle of the image.
			r, g, _, _ := img.At(Width/2, Height/2).RGBA()
			if r>>8 != uint32(sunColor.R) || g>>8 != uint32(sunColor.G) {
				t.Errorf("centre pixel = (%d,%d), want sun colour", r>>8, g>>8)
			}
		})
	}
}

func TestDraw_EmptyGalaxy(t *testing.T) {
	data, err := Draw(Scene{Day: models.DayWeather{Day: 1, Weather: models.WeatherUnknown}})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty image")
	}
}

func TestCache(t *testing.T) {
	c := NewCache(time.Minute)
	if _, ok := c.Get(1); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set(1, []byte("png"))
	got, ok := c.Get(1)
	if !ok || string(got) != "png" {
		t.Errorf("Get(1) = %q, %v", got, ok)
	}

	expired := NewCache(-time.Second)
	expired.Set(2, []byte("png"))
	if _, ok := expired.Get(2); ok {
		t.Error("expected expired entry to miss")
	}
}
