package reserve_slot

// ReserveSlotRequest HTTP request model
type ReserveSlotRequest struct {
	BookingID int64 `json:"bookingId" validate:"required,gt=0"`
}

// ReserveSlotResponse HTTP response model
type ReserveSlotResponse struct {
	SlotID    int64 `json:"slotId"`
	BookingID int64 `json:"bookingId"`
}
