package entity

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SeatCount is the seat input of the form. On the wire it is either a number
// or an empty string meaning "not entered".
type SeatCount struct {
	n   int
	set bool
}

// Seats returns a seat count holding n
func Seats(n int) SeatCount {
	return SeatCount{n: n, set: true}
}

// Int returns the value and whether one was entered
func (s SeatCount) Int() (int, bool) {
	return s.n, s.set
}

func (s SeatCount) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte(`""`), nil
	}

	return []byte(strconv.Itoa(s.n)), nil
}

func (s *SeatCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = SeatCount{}

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*s = SeatCount{}

			return nil
		}
		data = []byte(raw)
	}

	n, err := parseSeats(string(data))
	if err != nil {
		return err
	}
	*s = Seats(n)

	return nil
}

// maxSeats bounds the seat count well inside the int32 column range
const maxSeats = 1_000_000

var ErrInvalidSeats = errors.New("seats must be a whole number between 0 and 1000000 or an empty string")

// parseSeats accepts an integer literal or a float literal with no fractional part.
func parseSeats(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 || n > maxSeats {
			return 0, errors.Wrapf(ErrInvalidSeats, "got %d", n)
		}

		return n, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidSeats, "got %q", raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > maxSeats {
		return 0, errors.Wrapf(ErrInvalidSeats, "got %q", raw)
	}

	return int(f), nil
}

// CafeFormPayload is the wizard-editable shape of a listing.
type CafeFormPayload struct {
	CafeAttributes

	Seats  SeatCount `json:"seats"`
	Images ImageSet  `json:"images"`
}

// Clone returns a deep copy, including image slots
func (p *CafeFormPayload) Clone() *CafeFormPayload {
	return &CafeFormPayload{
		CafeAttributes: p.CafeAttributes.Clone(),
		Seats:          p.Seats,
		Images:         p.Images.Clone(),
	}
}

// ApplyFacilityRules enforces cross-field rules: short leave only applies to coworking spaces.
func (p *CafeFormPayload) ApplyFacilityRules() {
	if p.FacilityType != FacilityTypeCoworking {
		p.AllowsShortLeave = false
	}
}

// DefaultPrefecture pre-selected on a new form
const DefaultPrefecture = "東京都"

// NewEmptyForm returns the defaults a new listing starts from.
func NewEmptyForm() *CafeFormPayload {
	return &CafeFormPayload{
		CafeAttributes: CafeAttributes{
			FacilityType:          FacilityTypeCafe,
			Prefecture:            DefaultPrefecture,
			Status:                CafeStatusOpen,
			RegularHolidays:       []string{},
			Wifi:                  true,
			Outlet:                OutletAll,
			Lighting:              LightingNormal,
			Smoking:               SmokingNone,
			BringOwnFood:          BringOwnFoodAllowed,
			Alcohol:               AlcoholUnavailable,
			Services:              []string{},
			PaymentMethods:        []string{},
			CustomerTypes:         []string{},
			RecommendedWorkStyles: []string{},
			CrowdMatrix:           UniformCrowdMatrix(CrowdNormal),
			AmbienceCasual:        3,
			AmbienceModern:        3,
		},
	}
}
