// Package render draws a galaxy on a given day as a PNG.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/lox/galaxyweather/internal/models"
)

const (
	Width  = 640
	Height = 640
	margin = 48
)

var (
	background  = color.RGBA{0x0b, 0x10, 0x20, 0xff}
	orbitColor  = color.RGBA{0x3a, 0x44, 0x60, 0xff}
	sunColor    = color.RGBA{0xfd, 0xb8, 0x13, 0xff}
	planetColor = color.RGBA{0x7f, 0xd1, 0xff, 0xff}
	textColor   = color.RGBA{0xe6, 0xe9, 0xf0, 0xff}
)

var weatherColors = map[models.Weather]color.RGBA{
	models.WeatherRainy:   {0x3b, 0x82, 0xf6, 0xff},
	models.WeatherDrought: {0xef, 0x44, 0x44, 0xff},
	models.WeatherOptimal: {0x22, 0xc5, 0x5e, 0xff},
	models.WeatherUnknown: {0x94, 0xa3, 0xb8, 0xff},
}

var (
	labelFace font.Face
	faceMu    sync.Mutex // font.Face is not safe for concurrent use
	fontOnce  sync.Once
	fontErr   error
)

func loadFont() {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			fontErr = fmt.Errorf("parse goregular: %w", err)
			return
		}
		labelFace, err = opentype.NewFace(f, &opentype.FaceOptions{
			Size:    18,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			fontErr = fmt.Errorf("create label face: %w", err)
		}
	})
}

// Scene is everything needed to draw one day.
type Scene struct {
	Day   models.DayWeather
	Sun   models.Coordinate
	Radii []float64
}

type canvas struct {
	img   *image.RGBA
	z     *vector.Rasterizer
	scale float64
	sun   models.Coordinate
}

// project maps galaxy coordinates to pixels, y pointing up.
func (c *canvas) project(p models.Coordinate) (float32, float32) {
	x := float64(Width)/2 + (p.X-c.sun.X)*c.scale
	y := float64(Height)/2 - (p.Y-c.sun.Y)*c.scale
	return float32(x), float32(y)
}

func (c *canvas) fill(col color.Color, path func(z *vector.Rasterizer)) {
	c.z.Reset(Width, Height)
	c.z.DrawOp = draw.Over
	path(c.z)
	c.z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

func circlePath(z *vector.Rasterizer, cx, cy, r float32, reverse bool) {
	const steps = 96
	for i := 0; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / steps
		if reverse {
			a = -a
		}
		x := cx + r*float32(math.Cos(a))
		y := cy + r*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

func (c *canvas) disc(center models.Coordinate, r float32, col color.Color) {
	cx, cy := c.project(center)
	c.fill(col, func(z *vector.Rasterizer) { circlePath(z, cx, cy, r, false) })
}

func (c *canvas) ring(radius float64, col color.Color) {
	cx, cy := c.project(c.sun)
	r := float32(radius * c.scale)
	c.fill(col, func(z *vector.Rasterizer) {
		circlePath(z, cx, cy, r+0.75, false)
		circlePath(z, cx, cy, max(r-0.75, 0), true)
	})
}

func (c *canvas) segment(a, b models.Coordinate, width float32, col color.Color) {
	ax, ay := c.project(a)
	bx, by := c.project(b)
	dx, dy := bx-ax, by-ay
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	c.fill(col, func(z *vector.Rasterizer) {
		z.MoveTo(ax+nx, ay+ny)
		z.LineTo(bx+nx, by+ny)
		z.LineTo(bx-nx, by-ny)
		z.LineTo(ax-nx, ay-ny)
		z.ClosePath()
	})
}

func (c *canvas) text(x, y int, col color.Color, s string) {
	faceMu.Lock()
	defer faceMu.Unlock()
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: labelFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// Draw renders the scene and returns it PNG encoded.
func Draw(s Scene) ([]byte, error) {
	loadFont()
	if fontErr != nil {
		return nil, fontErr
	}

	extent := 0.0
	for _, r := range s.Radii {
		extent = max(extent, r)
	}
	for _, p := range s.Day.Planets {
		extent = max(extent, math.Abs(p.Coordinates.X-s.Sun.X), math.Abs(p.Coordinates.Y-s.Sun.Y))
	}
	if extent == 0 {
		extent = 1
	}

	c := &canvas{
		img:   image.NewRGBA(image.Rect(0, 0, Width, Height)),
		z:     vector.NewRasterizer(Width, Height),
		scale: (float64(Width)/2 - margin) / extent,
		sun:   s.Sun,
	}
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for _, r := range s.Radii {
		c.ring(r, orbitColor)
	}

	weatherColor, ok := weatherColors[s.Day.Weather]
	if !ok {
		weatherColor = weatherColors[models.WeatherUnknown]
	}
	if n := len(s.Day.Planets); n > 1 {
		for i := range s.Day.Planets {
			c.segment(s.Day.Planets[i].Coordinates, s.Day.Planets[(i+1)%n].Coordinates, 2, weatherColor)
		}
	}

	c.disc(s.Sun, 12, sunColor)
	for _, p := range s.Day.Planets {
		c.disc(p.Coordinates, 7, planetColor)
		x, y := c.project(p.Coordinates)
		c.text(int(x)+10, int(y)-10, textColor, p.Name)
	}

	c.text(16, 30, weatherColor, fmt.Sprintf("Day %d: %s", s.Day.Day, s.Day.Weather))

	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
