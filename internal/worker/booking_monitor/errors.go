package booking_monitor

import "errors"

// errStatusChanged бронирование сменило статус между выборкой и обновлением
var errStatusChanged = errors.New("booking_monitor: booking status changed concurrently")
