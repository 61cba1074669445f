package request

type CreateHoldRequest struct {
	ShowingID string   `json:"showing_id" validate:"required,uuid4"`
	SeatIDs   []string `json:"seat_ids" validate:"required,min=1,max=10,dive,min=2,max=4"`
}

type ConfirmHoldRequest struct {
	IntentID      string `json:"intent_id" validate:"required"`
	Proof         string `json:"proof" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=card upi netbanking wallet"`
}

type CreateIntentRequest struct {
	HoldToken string `json:"hold_token" validate:"required,uuid4"`
}
