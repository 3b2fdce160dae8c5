package forecast

import (
	"errors"
	"fmt"

	"github.com/lox/galaxyweather/internal/models"
)

// PlanetCount is the number of planets every galaxy must have.
const PlanetCount = 3

// ErrInvalidInput is matched by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// PlanetInput is a planet as received from a caller. Pointer fields
// distinguish a missing value from a zero one.
type PlanetInput struct {
	Name            *string  `json:"name"`
	AngularVelocity *float64 `json:"angularVelocity"`
	IsClockwise     *bool    `json:"isClockwise"`
	SolarRadius     *float64 `json:"solarRadius"`
}

// Input is the request for one prediction run.
type Input struct {
	Days           *int               `json:"days"`
	SunCoordinates *models.Coordinate `json:"sunCoordinates"`
	Planets        []PlanetInput      `json:"planets"`
}

// Galaxy is a validated sun and planet configuration.
type Galaxy struct {
	Sun     models.Coordinate
	Planets [PlanetCount]models.Planet
}

// NewInput builds the request for a known galaxy.
func NewInput(days int, g Galaxy) Input {
	in := Input{
		Days:           &days,
		SunCoordinates: &g.Sun,
		Planets:        make([]PlanetInput, 0, PlanetCount),
	}
	for _, p := range g.Planets {
		in.Planets = append(in.Planets, PlanetInput{
			Name:            &p.Name,
			AngularVelocity: &p.AngularVelocity,
			IsClockwise:     &p.IsClockwise,
			SolarRadius:     &p.SolarRadius,
		})
	}
	return in
}

// Validate checks that every required field is present. Values are not
// range-checked: zero days is the only rejected value.
func (in Input) Validate() (int, Galaxy, error) {
	if in.Days == nil || *in.Days == 0 {
		return 0, Galaxy{}, &ValidationError{Field: "days", Reason: "days to predict not found on input"}
	}
	if in.SunCoordinates == nil {
		return 0, Galaxy{}, &ValidationError{Field: "sunCoordinates", Reason: "sun coordinates not found on input"}
	}
	if in.Planets == nil {
		return 0, Galaxy{}, &ValidationError{Field: "planets", Reason: "planets info not found on input"}
	}
	if len(in.Planets) != PlanetCount {
		return 0, Galaxy{}, &ValidationError{
			Field:  "planets",
			Reason: fmt.Sprintf("expected %d planets, received %d", PlanetCount, len(in.Planets)),
		}
	}

	g := Galaxy{Sun: *in.SunCoordinates}
	for i, p := range in.Planets {
		if p.AngularVelocity == nil || p.IsClockwise == nil || p.Name == nil || p.SolarRadius == nil {
			return 0, Galaxy{}, &ValidationError{
				Field:  fmt.Sprintf("planets[%d]", i),
				Reason: "missing basic planet info",
			}
		}
		g.Planets[i] = models.Planet{
			Name:            *p.Name,
			AngularVelocity: *p.AngularVelocity,
			IsClockwise:     *p.IsClockwise,
			SolarRadius:     *p.SolarRadius,
		}
	}
	return *in.Days, g, nil
}
