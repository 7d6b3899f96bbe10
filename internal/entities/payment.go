package entities

type PaymentIntentRequest struct {
	BookingID string `json:"bookingId"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}
