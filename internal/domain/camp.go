package domain

// Camp is a bookable camp site. Reference data, read-only to the core.
type Camp struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Location    string   `json:"location" yaml:"location"`
	Price       int64    `json:"price" yaml:"price"` // lowest nightly price across rooms
	Image       string   `json:"image" yaml:"image"`
	Amenities   []string `json:"amenities" yaml:"amenities"`
	Rating      float64  `json:"rating" yaml:"rating"`
}

type Room struct {
	ID        string   `json:"id" yaml:"id"`
	CampID    string   `json:"campId" yaml:"camp_id"`
	Name      string   `json:"name" yaml:"name"`
	Type      string   `json:"type" yaml:"type"`
	Capacity  int      `json:"capacity" yaml:"capacity"`
	Price     int64    `json:"price" yaml:"price"` // nightly
	Amenities []string `json:"amenities" yaml:"amenities"`
	Available bool     `json:"available" yaml:"available"`
	Image     string   `json:"image" yaml:"image"`
}

// Catalog is the full reference data set, as loaded from a seed file.
type Catalog struct {
	Camps []Camp `json:"camps" yaml:"camps"`
	Rooms []Room `json:"rooms" yaml:"rooms"`
}

type CampsQuery struct {
	Q string // case-insensitive match on name, location or description
}
