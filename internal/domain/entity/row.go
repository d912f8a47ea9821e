package entity

import (
	"maps"
	"time"
)

// CafeRow is the flat storage shape of a listing, using the store's
// snake_case naming. Nullable columns are pointers.
type CafeRow struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	FacilityType      string       `json:"facility_type"`
	Area              string       `json:"area"`
	Prefecture        string       `json:"prefecture"`
	PostalCode        string       `json:"postal_code"`
	AddressLine1      string       `json:"address_line1"`
	AddressLine2      string       `json:"address_line2"`
	AddressLine3      *string      `json:"address_line3"`
	Address           string       `json:"address"`
	Access            *string      `json:"access"`
	Phone             *string      `json:"phone"`
	Website           *string      `json:"website"`
	Status            string       `json:"status"`
	TimeLimit         *string      `json:"time_limit"`
	HoursWeekdayFrom  *string      `json:"hours_weekday_from"`
	HoursWeekdayTo    *string      `json:"hours_weekday_to"`
	HoursWeekendFrom  *string      `json:"hours_weekend_from"`
	HoursWeekendTo    *string      `json:"hours_weekend_to"`
	HoursNote         *string      `json:"hours_note"`
	RegularHolidays   []string     `json:"regular_holidays"`
	Seats             *int         `json:"seats"`
	Wifi              bool         `json:"wifi"`
	Outlet            string       `json:"outlet"`
	Lighting          string       `json:"lighting"`
	MeetingRoom       bool         `json:"meeting_room"`
	AllowShortLeave   bool         `json:"allow_short_leave"`
	PrivateBooths     bool         `json:"private_booths"`
	Parking           bool         `json:"parking"`
	Smoking           string       `json:"smoking"`
	CoffeePrice       *int         `json:"coffee_price"`
	BringOwnFood      string       `json:"bring_own_food"`
	Alcohol           string       `json:"alcohol"`
	Services          []string     `json:"services"`
	PaymentMethods    []string     `json:"payment_methods"`
	CustomerTypes     []string     `json:"customer_types"`
	RecommendedWork   []string     `json:"recommended_work"`
	CrowdLevels       *CrowdMatrix `json:"crowd_levels"`
	AmbienceCasual    *int         `json:"ambience_casual"`
	AmbienceModern    *int         `json:"ambience_modern"`
	AmbassadorComment *string      `json:"ambassador_comment"`
	Latitude          *float64     `json:"latitude"`
	Longitude         *float64     `json:"longitude"`

	ImageMainPath     *string `json:"image_main_path"`
	ImageExteriorPath *string `json:"image_exterior_path"`
	ImageInteriorPath *string `json:"image_interior_path"`
	ImagePowerPath    *string `json:"image_power_path"`
	ImageDrinkPath    *string `json:"image_drink_path"`
	ImageFoodPath     *string `json:"image_food_path"`
	// ImageOtherPaths is positional: index i holds other(i+1), "" marks a gap
	ImageOtherPaths []string `json:"image_other_paths"`
	// ImageCaptions maps a category key to its caption
	ImageCaptions map[string]string `json:"image_captions"`

	DeletedAt *time.Time `json:"deleted_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// ImagePath returns the stored path column for a category
func (r *CafeRow) ImagePath(c ImageCategory) string {
	if i, ok := c.OtherIndex(); ok {
		if i < len(r.ImageOtherPaths) {
			return r.ImageOtherPaths[i]
		}

		return ""
	}

	if p := r.namedPathColumn(c); p != nil && *p != nil {
		return **p
	}

	return ""
}

// SetImagePath writes the path column for a category; an empty path clears it
func (r *CafeRow) SetImagePath(c ImageCategory, path string) {
	if i, ok := c.OtherIndex(); ok {
		for len(r.ImageOtherPaths) <= i {
			r.ImageOtherPaths = append(r.ImageOtherPaths, "")
		}
		r.ImageOtherPaths[i] = path
		for len(r.ImageOtherPaths) > 0 && r.ImageOtherPaths[len(r.ImageOtherPaths)-1] == "" {
			r.ImageOtherPaths = r.ImageOtherPaths[:len(r.ImageOtherPaths)-1]
		}

		return
	}

	p := r.namedPathColumn(c)
	if p == nil {
		return
	}
	if path == "" {
		*p = nil

		return
	}
	*p = &path
}

func (r *CafeRow) namedPathColumn(c ImageCategory) **string {
	switch c {
	case ImageMain:
		return &r.ImageMainPath
	case ImageExterior:
		return &r.ImageExteriorPath
	case ImageInterior:
		return &r.ImageInteriorPath
	case ImagePower:
		return &r.ImagePowerPath
	case ImageDrink:
		return &r.ImageDrinkPath
	case ImageFood:
		return &r.ImageFoodPath
	}

	return nil
}

// CafeImageRow is one associated-image row of a listing.
type CafeImageRow struct {
	ID           string        `json:"id"`
	CafeID       string        `json:"cafe_id"`
	ImagePath    string        `json:"image_url"`
	Category     ImageCategory `json:"image_type"`
	DisplayOrder int           `json:"display_order"`
}

// Clone returns a deep copy of the row
func (r *CafeRow) Clone() *CafeRow {
	if r == nil {
		return nil
	}
	out := *r
	out.AddressLine3 = clonePtr(r.AddressLine3)
	out.Access = clonePtr(r.Access)
	out.Phone = clonePtr(r.Phone)
	out.Website = clonePtr(r.Website)
	out.TimeLimit = clonePtr(r.TimeLimit)
	out.HoursWeekdayFrom = clonePtr(r.HoursWeekdayFrom)
	out.HoursWeekdayTo = clonePtr(r.HoursWeekdayTo)
	out.HoursWeekendFrom = clonePtr(r.HoursWeekendFrom)
	out.HoursWeekendTo = clonePtr(r.HoursWeekendTo)
	out.HoursNote = clonePtr(r.HoursNote)
	out.AmbassadorComment = clonePtr(r.AmbassadorComment)
	out.ImageMainPath = clonePtr(r.ImageMainPath)
	out.ImageExteriorPath = clonePtr(r.ImageExteriorPath)
	out.ImageInteriorPath = clonePtr(r.ImageInteriorPath)
	out.ImagePowerPath = clonePtr(r.ImagePowerPath)
	out.ImageDrinkPath = clonePtr(r.ImageDrinkPath)
	out.ImageFoodPath = clonePtr(r.ImageFoodPath)
	out.RegularHolidays = cloneStrings(r.RegularHolidays)
	out.Services = cloneStrings(r.Services)
	out.PaymentMethods = cloneStrings(r.PaymentMethods)
	out.CustomerTypes = cloneStrings(r.CustomerTypes)
	out.RecommendedWork = cloneStrings(r.RecommendedWork)
	out.ImageOtherPaths = cloneStrings(r.ImageOtherPaths)
	out.Seats = clonePtr(r.Seats)
	out.CoffeePrice = clonePtr(r.CoffeePrice)
	out.AmbienceCasual = clonePtr(r.AmbienceCasual)
	out.AmbienceModern = clonePtr(r.AmbienceModern)
	out.Latitude = clonePtr(r.Latitude)
	out.Longitude = clonePtr(r.Longitude)
	out.CrowdLevels = clonePtr(r.CrowdLevels)
	out.DeletedAt = clonePtr(r.DeletedAt)
	out.UpdatedAt = clonePtr(r.UpdatedAt)
	out.ImageCaptions = maps.Clone(r.ImageCaptions)

	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p

	return &v
}
