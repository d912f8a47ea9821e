package codec

import (
	"fmt"
	"slices"
	"strings"

	"cafeadmin/internal/domain/entity"

	"github.com/paulmach/orb"
)

const (
	ambienceMin = 1
	ambienceMax = 5
)

var worldBound = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

type requiredField struct {
	key   string
	value func(p *entity.CafeFormPayload) string
}

var requiredTextFields = []requiredField{
	{"name", func(p *entity.CafeFormPayload) string { return p.Name }},
	{"facilityType", func(p *entity.CafeFormPayload) string { return string(p.FacilityType) }},
	{"area", func(p *entity.CafeFormPayload) string { return p.Area }},
	{"prefecture", func(p *entity.CafeFormPayload) string { return p.Prefecture }},
	{"postalCode", func(p *entity.CafeFormPayload) string { return p.PostalCode }},
	{"addressLine1", func(p *entity.CafeFormPayload) string { return p.AddressLine1 }},
	{"addressLine2", func(p *entity.CafeFormPayload) string { return p.AddressLine2 }},
}

type enumField struct {
	key   string
	value func(p *entity.CafeFormPayload) (string, bool)
}

func enumOf[T interface {
	~string
	Valid() bool
}](v T) (string, bool) {
	return string(v), v.Valid()
}

// Empty values are left to the required checks or the save defaults.
var enumFields = []enumField{
	{"facilityType", func(p *entity.CafeFormPayload) (string, bool) { return enumOf(p.FacilityType) }},
	{"status", func(p *entity.CafeFormPayload) (string, bool) { return enumOf(p.Status) }},
	{"outlet", func(p *entity.CafeFormPayload) (string, bool) { return enumOf(p.Outlet) }},
	{"lighting", func(p *entity.CafeFormPayload) (string, bool) { return enumOf(p.Lighting) }},
	{"smoking", func(p *entity.CafeFormPayload) (string, bool) { return enumOf(p.Smoking) }},
	{"bringOwnFood", func(p *entity.CafeFormPayload) (string, bool) { return enumOf(p.BringOwnFood) }},
	{"alcohol", func(p *entity.CafeFormPayload) (string, bool) { return enumOf(p.Alcohol) }},
}

// EnumViolations lists one message per field holding a value outside its
// option set, plus one for the crowd matrix if any slot is unknown.
func EnumViolations(p *entity.CafeFormPayload) []string {
	var violations []string
	for _, f := range enumFields {
		if v, ok := f.value(p); v != "" && !ok {
			violations = append(violations, fmt.Sprintf("%sの値が不正です", f.key))
		}
	}

	for _, slot := range entity.CrowdSlots {
		if level, _ := p.CrowdMatrix.Get(slot); level != "" && !level.Valid() {
			violations = append(violations, "crowdMatrixの値が不正です")

			break
		}
	}

	return violations
}

// RequiredFieldViolations lists one message per missing required text field.
func RequiredFieldViolations(p *entity.CafeFormPayload) []string {
	var violations []string
	for _, f := range requiredTextFields {
		if strings.TrimSpace(f.value(p)) == "" {
			violations = append(violations, fmt.Sprintf("%sは必須です", f.key))
		}
	}

	return violations
}

// RequiredImageViolations lists one message per missing mandatory image
// category and per slot whose staged file has to be attached again.
func RequiredImageViolations(p *entity.CafeFormPayload) []string {
	var violations []string
	for _, c := range entity.AllImageCategories {
		slot := p.Images.Get(c)
		switch {
		case slot.NeedsReattach():
			violations = append(violations, fmt.Sprintf("%s画像を再度添付してください", c))
		case slices.Contains(entity.RequiredImageCategories, c) && !slot.Populated():
			violations = append(violations, fmt.Sprintf("%s画像は必須です", c))
		}
	}

	return violations
}

// FieldViolations covers everything entered on the info step: required text
// fields, option values, coordinate sanity and slider ranges.
func FieldViolations(p *entity.CafeFormPayload) []string {
	violations := append(RequiredFieldViolations(p), EnumViolations(p)...)

	switch {
	case (p.Latitude == nil) != (p.Longitude == nil):
		violations = append(violations, "緯度と経度は両方入力してください")
	case p.Latitude != nil:
		if pt, _ := p.Coordinate(); !worldBound.Contains(pt) {
			violations = append(violations, "緯度経度の値が範囲外です")
		}
	}

	if p.AmbienceCasual < ambienceMin || p.AmbienceCasual > ambienceMax {
		violations = append(violations, fmt.Sprintf("ambienceCasualは%d〜%dで指定してください", ambienceMin, ambienceMax))
	}
	if p.AmbienceModern < ambienceMin || p.AmbienceModern > ambienceMax {
		violations = append(violations, fmt.Sprintf("ambienceModernは%d〜%dで指定してください", ambienceMin, ambienceMax))
	}

	return violations
}

// Validate returns every violation of the payload, field problems first.
func Validate(p *entity.CafeFormPayload) []string {
	return append(FieldViolations(p), RequiredImageViolations(p)...)
}
