package gormstore

import (
	"cafeadmin/internal/domain/entity"
	"cafeadmin/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

func fromCafeDomain(row *entity.CafeRow) *model.CafeModel {
	return &model.CafeModel{
		ID:                row.ID,
		Name:              row.Name,
		FacilityType:      row.FacilityType,
		Area:              row.Area,
		Prefecture:        row.Prefecture,
		PostalCode:        row.PostalCode,
		AddressLine1:      row.AddressLine1,
		AddressLine2:      row.AddressLine2,
		AddressLine3:      row.AddressLine3,
		Address:           row.Address,
		Access:            row.Access,
		Phone:             row.Phone,
		Website:           row.Website,
		Status:            row.Status,
		TimeLimit:         row.TimeLimit,
		HoursWeekdayFrom:  row.HoursWeekdayFrom,
		HoursWeekdayTo:    row.HoursWeekdayTo,
		HoursWeekendFrom:  row.HoursWeekendFrom,
		HoursWeekendTo:    row.HoursWeekendTo,
		HoursNote:         row.HoursNote,
		RegularHolidays:   nonNil(row.RegularHolidays),
		Seats:             row.Seats,
		Wifi:              row.Wifi,
		Outlet:            row.Outlet,
		Lighting:          row.Lighting,
		MeetingRoom:       row.MeetingRoom,
		AllowShortLeave:   row.AllowShortLeave,
		PrivateBooths:     row.PrivateBooths,
		Parking:           row.Parking,
		Smoking:           row.Smoking,
		CoffeePrice:       row.CoffeePrice,
		BringOwnFood:      row.BringOwnFood,
		Alcohol:           row.Alcohol,
		Services:          nonNil(row.Services),
		PaymentMethods:    nonNil(row.PaymentMethods),
		CustomerTypes:     nonNil(row.CustomerTypes),
		RecommendedWork:   nonNil(row.RecommendedWork),
		CrowdLevels:       datatypes.NewJSONType(row.CrowdLevels),
		AmbienceCasual:    row.AmbienceCasual,
		AmbienceModern:    row.AmbienceModern,
		AmbassadorComment: row.AmbassadorComment,
		Latitude:          row.Latitude,
		Longitude:         row.Longitude,
		ImageMainPath:     row.ImageMainPath,
		ImageExteriorPath: row.ImageExteriorPath,
		ImageInteriorPath: row.ImageInteriorPath,
		ImagePowerPath:    row.ImagePowerPath,
		ImageDrinkPath:    row.ImageDrinkPath,
		ImageFoodPath:     row.ImageFoodPath,
		ImageOtherPaths:   nonNil(row.ImageOtherPaths),
		ImageCaptions:     datatypes.NewJSONType(row.ImageCaptions),
		DeletedAt:         row.DeletedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

func toCafeDomain(m *model.CafeModel) *entity.CafeRow {
	row := &entity.CafeRow{
		ID:                m.ID,
		Name:              m.Name,
		FacilityType:      m.FacilityType,
		Area:              m.Area,
		Prefecture:        m.Prefecture,
		PostalCode:        m.PostalCode,
		AddressLine1:      m.AddressLine1,
		AddressLine2:      m.AddressLine2,
		AddressLine3:      m.AddressLine3,
		Address:           m.Address,
		Access:            m.Access,
		Phone:             m.Phone,
		Website:           m.Website,
		Status:            m.Status,
		TimeLimit:         m.TimeLimit,
		HoursWeekdayFrom:  m.HoursWeekdayFrom,
		HoursWeekdayTo:    m.HoursWeekdayTo,
		HoursWeekendFrom:  m.HoursWeekendFrom,
		HoursWeekendTo:    m.HoursWeekendTo,
		HoursNote:         m.HoursNote,
		RegularHolidays:   m.RegularHolidays,
		Seats:             m.Seats,
		Wifi:              m.Wifi,
		Outlet:            m.Outlet,
		Lighting:          m.Lighting,
		MeetingRoom:       m.MeetingRoom,
		AllowShortLeave:   m.AllowShortLeave,
		PrivateBooths:     m.PrivateBooths,
		Parking:           m.Parking,
		Smoking:           m.Smoking,
		CoffeePrice:       m.CoffeePrice,
		BringOwnFood:      m.BringOwnFood,
		Alcohol:           m.Alcohol,
		Services:          m.Services,
		PaymentMethods:    m.PaymentMethods,
		CustomerTypes:     m.CustomerTypes,
		RecommendedWork:   m.RecommendedWork,
		CrowdLevels:       m.CrowdLevels.Data(),
		AmbienceCasual:    m.AmbienceCasual,
		AmbienceModern:    m.AmbienceModern,
		AmbassadorComment: m.AmbassadorComment,
		Latitude:          m.Latitude,
		Longitude:         m.Longitude,
		ImageMainPath:     m.ImageMainPath,
		ImageExteriorPath: m.ImageExteriorPath,
		ImageInteriorPath: m.ImageInteriorPath,
		ImagePowerPath:    m.ImagePowerPath,
		ImageDrinkPath:    m.ImageDrinkPath,
		ImageFoodPath:     m.ImageFoodPath,
		ImageOtherPaths:   m.ImageOtherPaths,
		ImageCaptions:     m.ImageCaptions.Data(),
		DeletedAt:         m.DeletedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if len(row.ImageOtherPaths) == 0 {
		row.ImageOtherPaths = nil
	}

	return row
}

func fromCafeImageDomain(row *entity.CafeImageRow) *model.CafeImageModel {
	return &model.CafeImageModel{
		ID:           row.ID,
		CafeID:       row.CafeID,
		ImageURL:     row.ImagePath,
		ImageType:    row.Category.String(),
		DisplayOrder: row.DisplayOrder,
	}
}

func toCafeImageDomain(m *model.CafeImageModel) (*entity.CafeImageRow, error) {
	category, err := entity.ParseImageCategory(m.ImageType)
	if err != nil {
		return nil, errors.Wrapf(err, "image row %s", m.ID)
	}

	return &entity.CafeImageRow{
		ID:           m.ID,
		CafeID:       m.CafeID,
		ImagePath:    m.ImageURL,
		Category:     category,
		DisplayOrder: m.DisplayOrder,
	}, nil
}

// list columns are NOT NULL; store an empty array rather than JSON null
func nonNil(in []string) datatypes.JSONSlice[string] {
	if in == nil {
		return datatypes.JSONSlice[string]{}
	}

	return datatypes.JSONSlice[string](in)
}
