package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

type TourCategory string

const (
	TourCategoryFullDay  TourCategory = "FULL_DAY"
	TourCategoryHalfDay  TourCategory = "HALF_DAY"
	TourCategoryEvening  TourCategory = "EVENING"
	TourCategoryMultiDay TourCategory = "MULTI_DAY"
	TourCategoryTransfer TourCategory = "TRANSFER"
)

// StringList stores a slice of strings as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// Tour is a fixed-itinerary product that bookings may reference.
type Tour struct {
	gorm.Model
	Name             string       `json:"name" gorm:"not null"`
	Slug             string       `json:"slug" gorm:"uniqueIndex;not null"`
	Description      string       `json:"description" gorm:"type:text;not null"`
	ShortDescription string       `json:"shortDescription" gorm:"not null"`
	Duration         string       `json:"duration" gorm:"not null"`
	DurationHours    int          `json:"durationHours" gorm:"not null"`
	Price            float64      `json:"price" gorm:"not null"`
	Currency         string       `json:"currency" gorm:"not null;default:'ISK'"`
	Category         TourCategory `json:"category" gorm:"not null"`
	Highlights       StringList   `json:"highlights" gorm:"type:text"`
	Includes         StringList   `json:"includes" gorm:"type:text"`
	Images           StringList   `json:"images" gorm:"type:text"`
	Featured         bool         `json:"featured" gorm:"not null;default:false"`
	Active           bool         `json:"active" gorm:"not null;default:true"`
}

// TableName specifies the table name
func (Tour) TableName() string {
	return "tours"
}
