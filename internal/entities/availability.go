package entities

// ServiceAvailability is a catalog entry whose slots only hold the times still free on a date.
type ServiceAvailability struct {
	ID    string   `json:"_id,omitempty"`
	Name  string   `json:"name"`
	Slots []string `json:"slots"`
	Price float64  `json:"price,omitempty"`
}
