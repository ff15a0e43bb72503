package domain

type State struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type City struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	StateID int64  `json:"stateId"`
}

type Hotel struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	CityID       int64    `json:"cityId"`
	StateID      int64    `json:"stateId"`
	Price        int64    `json:"price"` // per night, whole INR
	Rating       int      `json:"rating"`
	Images       []string `json:"images"`
	Amenities    []string `json:"amenities"`
	Availability bool     `json:"availability"` // not read by any flow
}

// HotelWithLocation is a hotel joined with the names of its state and city.
type HotelWithLocation struct {
	Hotel
	StateName string `json:"stateName,omitempty"`
	CityName  string `json:"cityName,omitempty"`
}

// HotelFilter selects hotels. Only one dimension applies per call:
// StateID wins over CityID, which wins over Query.
type HotelFilter struct {
	StateID *int64
	CityID  *int64
	Query   string
}
