package entities

type BookingEmailData struct {
	PatientName string
	Service     string
	Date        string
	Time        string
	Heading     string
	CurrentYear int
}
