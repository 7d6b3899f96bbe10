package entities

type BookingResult struct {
	Acknowledged bool     `json:"acknowledged"`
	InsertedID   string   `json:"insertedId,omitempty"`
	Message      string   `json:"message,omitempty"`
	Fields       []string `json:"fields,omitempty"`
}

type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}
