// Package codec converts listings between the form payload, the flat storage
// row and the domain record.
package codec

import (
	"strings"

	"cafeadmin/internal/domain/entity"

	"github.com/google/uuid"
)

// PreviewFunc resolves a storage path to a display-ready URL
type PreviewFunc func(storagePath string) string

// ToStorageRow flattens a form payload into a storage row. Generated fields
// (id, deleted_at, updated_at) are left zero for the caller or store to fill.
func ToStorageRow(p *entity.CafeFormPayload) *entity.CafeRow {
	src := p.Clone()
	src.ApplyFacilityRules()

	row := &entity.CafeRow{
		Name:              src.Name,
		FacilityType:      string(src.FacilityType),
		Area:              src.Area,
		Prefecture:        src.Prefecture,
		PostalCode:        src.PostalCode,
		AddressLine1:      src.AddressLine1,
		AddressLine2:      src.AddressLine2,
		AddressLine3:      nullable(src.AddressLine3),
		Address:           JoinAddress(src.Prefecture, src.AddressLine1, src.AddressLine2, src.AddressLine3),
		Access:            nullable(src.Access),
		Phone:             nullable(src.Phone),
		Website:           nullable(src.Website),
		Status:            string(src.Status),
		TimeLimit:         nullable(src.TimeLimit),
		HoursWeekdayFrom:  nullable(src.HoursWeekdayFrom),
		HoursWeekdayTo:    nullable(src.HoursWeekdayTo),
		HoursWeekendFrom:  nullable(src.HoursWeekendFrom),
		HoursWeekendTo:    nullable(src.HoursWeekendTo),
		HoursNote:         nullable(src.HoursNote),
		RegularHolidays:   nonNil(src.RegularHolidays),
		Wifi:              src.Wifi,
		Outlet:            string(src.Outlet),
		Lighting:          string(src.Lighting),
		MeetingRoom:       src.MeetingRoom,
		AllowShortLeave:   src.AllowsShortLeave,
		PrivateBooths:     src.HasPrivateBooths,
		Parking:           src.Parking,
		Smoking:           string(src.Smoking),
		BringOwnFood:      string(src.BringOwnFood),
		Alcohol:           string(src.Alcohol),
		Services:          nonNil(src.Services),
		PaymentMethods:    nonNil(src.PaymentMethods),
		CustomerTypes:     nonNil(src.CustomerTypes),
		RecommendedWork:   nonNil(src.RecommendedWorkStyles),
		AmbassadorComment: nullable(src.AmbassadorComment),
		Latitude:          src.Latitude,
		Longitude:         src.Longitude,
	}

	if n, ok := src.Seats.Int(); ok {
		row.Seats = &n
	}
	if src.CoffeePrice != 0 {
		price := src.CoffeePrice
		row.CoffeePrice = &price
	}

	crowd := src.CrowdMatrix
	row.CrowdLevels = &crowd
	casual, modern := src.AmbienceCasual, src.AmbienceModern
	row.AmbienceCasual = &casual
	row.AmbienceModern = &modern

	for _, c := range entity.AllImageCategories {
		slot := src.Images.Get(c)
		if slot == nil || slot.StoragePath == "" || slot.NeedsReattach() {
			continue
		}
		row.SetImagePath(c, slot.StoragePath)
		if slot.Caption != "" {
			if row.ImageCaptions == nil {
				row.ImageCaptions = make(map[string]string)
			}
			row.ImageCaptions[c.String()] = slot.Caption
		}
	}

	return row
}

// FromStorageRow maps a storage row to a record. Missing optional columns
// fall back to empty values or form defaults; it never fails.
func FromStorageRow(row *entity.CafeRow) *entity.Cafe {
	if row == nil {
		return nil
	}

	defaults := entity.NewEmptyForm()

	cafe := &entity.Cafe{
		ID: row.ID,
		CafeAttributes: entity.CafeAttributes{
			Name:                  row.Name,
			FacilityType:          orDefault(entity.FacilityType(row.FacilityType), defaults.FacilityType),
			Area:                  row.Area,
			Prefecture:            row.Prefecture,
			PostalCode:            row.PostalCode,
			AddressLine1:          row.AddressLine1,
			AddressLine2:          row.AddressLine2,
			AddressLine3:          deref(row.AddressLine3),
			Access:                deref(row.Access),
			Phone:                 deref(row.Phone),
			Website:               deref(row.Website),
			Status:                orDefault(entity.CafeStatus(row.Status), defaults.Status),
			TimeLimit:             deref(row.TimeLimit),
			HoursWeekdayFrom:      deref(row.HoursWeekdayFrom),
			HoursWeekdayTo:        deref(row.HoursWeekdayTo),
			HoursWeekendFrom:      deref(row.HoursWeekendFrom),
			HoursWeekendTo:        deref(row.HoursWeekendTo),
			HoursNote:             deref(row.HoursNote),
			RegularHolidays:       nonNil(row.RegularHolidays),
			Wifi:                  row.Wifi,
			Outlet:                orDefault(entity.OutletAvailability(row.Outlet), defaults.Outlet),
			Lighting:              orDefault(entity.Lighting(row.Lighting), defaults.Lighting),
			MeetingRoom:           row.MeetingRoom,
			AllowsShortLeave:      row.AllowShortLeave,
			HasPrivateBooths:      row.PrivateBooths,
			Parking:               row.Parking,
			Smoking:               orDefault(entity.SmokingPolicy(row.Smoking), defaults.Smoking),
			BringOwnFood:          orDefault(entity.BringOwnFood(row.BringOwnFood), defaults.BringOwnFood),
			Alcohol:               orDefault(entity.AlcoholAvailability(row.Alcohol), defaults.Alcohol),
			Services:              nonNil(row.Services),
			PaymentMethods:        nonNil(row.PaymentMethods),
			CustomerTypes:         nonNil(row.CustomerTypes),
			RecommendedWorkStyles: nonNil(row.RecommendedWork),
			CrowdMatrix:           defaults.CrowdMatrix,
			AmbienceCasual:        defaults.AmbienceCasual,
			AmbienceModern:        defaults.AmbienceModern,
			AmbassadorComment:     deref(row.AmbassadorComment),
			Latitude:              copyFloat(row.Latitude),
			Longitude:             copyFloat(row.Longitude),
		},
		Address:   row.Address,
		DeletedAt: row.DeletedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if row.CoffeePrice != nil {
		cafe.CoffeePrice = *row.CoffeePrice
	}
	if row.Seats != nil {
		seats := *row.Seats
		cafe.Seats = &seats
	}
	if row.CrowdLevels != nil {
		cafe.CrowdMatrix = *row.CrowdLevels
		cafe.CrowdMatrix.Normalize(entity.CrowdNormal)
	}
	if row.AmbienceCasual != nil {
		cafe.AmbienceCasual = *row.AmbienceCasual
	}
	if row.AmbienceModern != nil {
		cafe.AmbienceModern = *row.AmbienceModern
	}

	for _, c := range entity.AllImageCategories {
		path := row.ImagePath(c)
		if path == "" {
			continue
		}
		cafe.Images.Set(c, &entity.ImageSlot{
			StoragePath: path,
			Caption:     row.ImageCaptions[c.String()],
		})
	}

	return cafe
}

// ToFormPayload rebuilds the editable form from a record. Every populated
// slot gets a fresh entry id and a preview URL for its stored path.
func ToFormPayload(cafe *entity.Cafe, preview PreviewFunc) *entity.CafeFormPayload {
	form := &entity.CafeFormPayload{
		CafeAttributes: cafe.CafeAttributes.Clone(),
	}
	if cafe.Seats != nil {
		form.Seats = entity.Seats(*cafe.Seats)
	}

	for _, c := range entity.AllImageCategories {
		slot := cafe.Images.Get(c)
		if slot == nil || slot.StoragePath == "" {
			continue
		}
		entry := &entity.ImageSlot{
			ID:          uuid.NewString(),
			StoragePath: slot.StoragePath,
			Caption:     slot.Caption,
		}
		if preview != nil {
			entry.PreviewURL = preview(slot.StoragePath)
		}
		form.Images.Set(c, entry)
	}

	return form
}

// JoinAddress concatenates the prefecture and address lines without a separator.
func JoinAddress(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.TrimSpace(part))
	}

	return b.String()
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func orDefault[T ~string](v, fallback T) T {
	if v == "" {
		return fallback
	}

	return v
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}

	return append([]string{}, in...)
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f

	return &v
}
