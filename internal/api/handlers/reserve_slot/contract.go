package reserve_slot

import "context"

type SlotBookingUseCase interface {
	Reserve(ctx context.Context, slotID, bookingID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
