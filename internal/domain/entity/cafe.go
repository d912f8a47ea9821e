package entity

import (
	"time"

	"github.com/paulmach/orb"
)

// CafeStatus is the operating status of a listing
type CafeStatus string

const (
	CafeStatusOpen           CafeStatus = "open"
	CafeStatusRecentlyOpened CafeStatus = "recently_opened"
	CafeStatusClosed         CafeStatus = "closed"
)

func (s CafeStatus) Valid() bool {
	switch s {
	case CafeStatusOpen, CafeStatusRecentlyOpened, CafeStatusClosed:
		return true
	}

	return false
}

// FacilityType classifies the venue
type FacilityType string

const (
	FacilityTypeCafe      FacilityType = "cafe"
	FacilityTypeCoworking FacilityType = "coworking"
	FacilityTypeHybrid    FacilityType = "hybrid"
	FacilityTypeOther     FacilityType = "other"
)

func (t FacilityType) Valid() bool {
	switch t {
	case FacilityTypeCafe, FacilityTypeCoworking, FacilityTypeHybrid, FacilityTypeOther:
		return true
	}

	return false
}

// OutletAvailability describes how many seats have a power outlet
type OutletAvailability string

const (
	OutletAll  OutletAvailability = "all"
	OutletMost OutletAvailability = "most"
	OutletHalf OutletAvailability = "half"
	OutletSome OutletAvailability = "some"
	OutletNone OutletAvailability = "none"
)

func (o OutletAvailability) Valid() bool {
	switch o {
	case OutletAll, OutletMost, OutletHalf, OutletSome, OutletNone:
		return true
	}

	return false
}

type Lighting string

const (
	LightingDark   Lighting = "dark"
	LightingNormal Lighting = "normal"
	LightingBright Lighting = "bright"
)

func (l Lighting) Valid() bool {
	switch l {
	case LightingDark, LightingNormal, LightingBright:
		return true
	}

	return false
}

type SmokingPolicy string

const (
	SmokingNone       SmokingPolicy = "no_smoking"
	SmokingSeparated  SmokingPolicy = "separated"
	SmokingECigarette SmokingPolicy = "e_cigarette"
	SmokingAllowed    SmokingPolicy = "allowed"
)

func (p SmokingPolicy) Valid() bool {
	switch p {
	case SmokingNone, SmokingSeparated, SmokingECigarette, SmokingAllowed:
		return true
	}

	return false
}

type BringOwnFood string

const (
	BringOwnFoodAllowed    BringOwnFood = "allowed"
	BringOwnFoodNotAllowed BringOwnFood = "not_allowed"
	BringOwnFoodDrinksOnly BringOwnFood = "drinks_only"
)

func (b BringOwnFood) Valid() bool {
	switch b {
	case BringOwnFoodAllowed, BringOwnFoodNotAllowed, BringOwnFoodDrinksOnly:
		return true
	}

	return false
}

type AlcoholAvailability string

const (
	AlcoholAvailable   AlcoholAvailability = "available"
	AlcoholNightOnly   AlcoholAvailability = "night_only"
	AlcoholUnavailable AlcoholAvailability = "unavailable"
)

func (a AlcoholAvailability) Valid() bool {
	switch a {
	case AlcoholAvailable, AlcoholNightOnly, AlcoholUnavailable:
		return true
	}

	return false
}

// CafeAttributes holds the descriptive fields shared by the persisted record
// and the editable form payload.
type CafeAttributes struct {
	Name         string       `json:"name"`
	FacilityType FacilityType `json:"facilityType"`
	Area         string       `json:"area"`
	Prefecture   string       `json:"prefecture"`
	PostalCode   string       `json:"postalCode"`
	AddressLine1 string       `json:"addressLine1"`
	AddressLine2 string       `json:"addressLine2"`
	AddressLine3 string       `json:"addressLine3"`
	Access       string       `json:"access"`
	Phone        string       `json:"phone"`
	Website      string       `json:"website"`

	Status           CafeStatus `json:"status"`
	TimeLimit        string     `json:"timeLimit"`
	HoursWeekdayFrom string     `json:"hoursWeekdayFrom"`
	HoursWeekdayTo   string     `json:"hoursWeekdayTo"`
	HoursWeekendFrom string     `json:"hoursWeekendFrom"`
	HoursWeekendTo   string     `json:"hoursWeekendTo"`
	HoursNote        string     `json:"hoursNote"`
	RegularHolidays  []string   `json:"regularHolidays"`

	Wifi             bool                `json:"wifi"`
	Outlet           OutletAvailability  `json:"outlet"`
	Lighting         Lighting            `json:"lighting"`
	MeetingRoom      bool                `json:"meetingRoom"`
	AllowsShortLeave bool                `json:"allowsShortLeave"`
	HasPrivateBooths bool                `json:"hasPrivateBooths"`
	Parking          bool                `json:"parking"`
	Smoking          SmokingPolicy       `json:"smoking"`
	CoffeePrice      int                 `json:"coffeePrice"`
	BringOwnFood     BringOwnFood        `json:"bringOwnFood"`
	Alcohol          AlcoholAvailability `json:"alcohol"`

	Services              []string `json:"services"`
	PaymentMethods        []string `json:"paymentMethods"`
	CustomerTypes         []string `json:"customerTypes"`
	RecommendedWorkStyles []string `json:"recommendedWorkStyles"`

	CrowdMatrix       CrowdMatrix `json:"crowdMatrix"`
	AmbienceCasual    int         `json:"ambienceCasual"`
	AmbienceModern    int         `json:"ambienceModern"`
	AmbassadorComment string      `json:"ambassadorComment"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Coordinate returns the geocoordinate as an orb point when both parts are set.
func (a *CafeAttributes) Coordinate() (orb.Point, bool) {
	if a.Latitude == nil || a.Longitude == nil {
		return orb.Point{}, false
	}

	return orb.Point{*a.Longitude, *a.Latitude}, true
}

// Clone returns a deep copy of the attributes.
func (a CafeAttributes) Clone() CafeAttributes {
	out := a
	out.RegularHolidays = cloneStrings(a.RegularHolidays)
	out.Services = cloneStrings(a.Services)
	out.PaymentMethods = cloneStrings(a.PaymentMethods)
	out.CustomerTypes = cloneStrings(a.CustomerTypes)
	out.RecommendedWorkStyles = cloneStrings(a.RecommendedWorkStyles)
	if a.Latitude != nil {
		lat := *a.Latitude
		out.Latitude = &lat
	}
	if a.Longitude != nil {
		lng := *a.Longitude
		out.Longitude = &lng
	}

	return out
}

// Cafe is a persisted café listing.
type Cafe struct {
	ID string `json:"id"`
	CafeAttributes

	// Address is the prefecture and address lines joined together
	Address   string     `json:"address"`
	Seats     *int       `json:"seats"`
	Images    ImageSet   `json:"images"`
	DeletedAt *time.Time `json:"deletedAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// IsDeleted reports whether the record has been soft-deleted
func (c *Cafe) IsDeleted() bool {
	return c.DeletedAt != nil
}

// CafeFilter narrows record listings.
type CafeFilter struct {
	Keyword        string
	Area           string
	Status         CafeStatus
	WifiOnly       bool
	IncludeDeleted bool
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}

	return append([]string(nil), in...)
}
