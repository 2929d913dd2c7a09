package entity

// Coordinates is a resolved geographic position
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PostalCode maps a postal code to coordinates. Static reference data,
// loaded once and served through the Redis read-through cache.
type PostalCode struct {
	Code      string  `gorm:"type:varchar(10);primaryKey" json:"code"`
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`
	City      string  `gorm:"type:varchar(100)" json:"city,omitempty"`
}

func (PostalCode) TableName() string {
	return "postal_codes"
}

// Coordinates returns the resolved position of the postal code
func (p *PostalCode) Coordinates() Coordinates {
	return Coordinates{Latitude: p.Latitude, Longitude: p.Longitude}
}
