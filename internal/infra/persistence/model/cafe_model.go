package model

import (
	"time"

	"cafeadmin/internal/domain/entity"

	"gorm.io/datatypes"
)

// CafeModel is the GORM-specific struct for the 'cafes' table.
type CafeModel struct {
	ID                string                      `gorm:"type:varchar(36);primaryKey"`
	Name              string                      `gorm:"type:varchar(255);not null"`
	FacilityType      string                      `gorm:"type:varchar(32);not null"`
	Area              string                      `gorm:"type:varchar(255);not null;index:idx_cafes_area"`
	Prefecture        string                      `gorm:"type:varchar(32);not null"`
	PostalCode        string                      `gorm:"type:varchar(16);not null"`
	AddressLine1      string                      `gorm:"type:varchar(255);not null"`
	AddressLine2      string                      `gorm:"type:varchar(255);not null"`
	AddressLine3      *string                     `gorm:"type:varchar(255)"`
	Address           string                      `gorm:"type:text;not null"`
	Access            *string                     `gorm:"type:text"`
	Phone             *string                     `gorm:"type:varchar(32)"`
	Website           *string                     `gorm:"type:text"`
	Status            string                      `gorm:"type:varchar(32);not null;index:idx_cafes_status"`
	TimeLimit         *string                     `gorm:"type:varchar(255)"`
	HoursWeekdayFrom  *string                     `gorm:"type:varchar(8)"`
	HoursWeekdayTo    *string                     `gorm:"type:varchar(8)"`
	HoursWeekendFrom  *string                     `gorm:"type:varchar(8)"`
	HoursWeekendTo    *string                     `gorm:"type:varchar(8)"`
	HoursNote         *string                     `gorm:"type:text"`
	RegularHolidays   datatypes.JSONSlice[string] `gorm:"not null"`
	Seats             *int
	Wifi              bool   `gorm:"not null;default:false"`
	Outlet            string `gorm:"type:varchar(16);not null"`
	Lighting          string `gorm:"type:varchar(16);not null"`
	MeetingRoom       bool   `gorm:"not null;default:false"`
	AllowShortLeave   bool   `gorm:"not null;default:false"`
	PrivateBooths     bool   `gorm:"not null;default:false"`
	Parking           bool   `gorm:"not null;default:false"`
	Smoking           string `gorm:"type:varchar(32);not null"`
	CoffeePrice       *int
	BringOwnFood      string                                  `gorm:"type:varchar(32);not null"`
	Alcohol           string                                  `gorm:"type:varchar(32);not null"`
	Services          datatypes.JSONSlice[string]             `gorm:"not null"`
	PaymentMethods    datatypes.JSONSlice[string]             `gorm:"not null"`
	CustomerTypes     datatypes.JSONSlice[string]             `gorm:"not null"`
	RecommendedWork   datatypes.JSONSlice[string]             `gorm:"not null"`
	CrowdLevels       datatypes.JSONType[*entity.CrowdMatrix] `gorm:"not null"`
	AmbienceCasual    *int
	AmbienceModern    *int
	AmbassadorComment *string  `gorm:"type:text"`
	Latitude          *float64 `gorm:"type:decimal(10,8)"`
	Longitude         *float64 `gorm:"type:decimal(11,8)"`

	ImageMainPath     *string                               `gorm:"type:text"`
	ImageExteriorPath *string                               `gorm:"type:text"`
	ImageInteriorPath *string                               `gorm:"type:text"`
	ImagePowerPath    *string                               `gorm:"type:text"`
	ImageDrinkPath    *string                               `gorm:"type:text"`
	ImageFoodPath     *string                               `gorm:"type:text"`
	ImageOtherPaths   datatypes.JSONSlice[string]           `gorm:"not null"`
	ImageCaptions     datatypes.JSONType[map[string]string] `gorm:"not null"`

	DeletedAt *time.Time `gorm:"index:idx_cafes_deleted_at"`
	// UpdatedAt is written by the caller; a soft delete must not touch it
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false;autoCreateTime:false;index:idx_cafes_updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (CafeModel) TableName() string {
	return "cafes"
}

// CafeImageModel is the GORM-specific struct for the 'cafe_images' table.
type CafeImageModel struct {
	ID           string `gorm:"type:varchar(36);primaryKey"`
	CafeID       string `gorm:"type:varchar(36);not null;index:idx_cafe_images_cafe"`
	ImageURL     string `gorm:"type:text;not null"`
	ImageType    string `gorm:"type:varchar(16);not null"`
	DisplayOrder int    `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (CafeImageModel) TableName() string {
	return "cafe_images"
}
