package booking_monitor

import "time"

// lockKey ключ распределенной блокировки тика
const lockKey = "booking-monitor"

// maxBatchesPerTick ограничивает количество пачек, обрабатываемых за один тик
const maxBatchesPerTick = 10

// Config настройки монитора
type Config struct {
	Interval       time.Duration // период тика
	PendingTimeout time.Duration // время жизни неподтвержденного бронирования
	BatchSize      int           // размер пачки бронирований
}

// TickResult результат одного тика
type TickResult struct {
	Cancelled int  // отменено неподтвержденных бронирований
	Released  int  // освобождено слотов
	Completed int  // завершено прошедших бронирований
	Failed    int  // бронирований, обработка которых завершилась ошибкой
	Skipped   bool // тик пропущен: блокировку держит другая реплика
}
