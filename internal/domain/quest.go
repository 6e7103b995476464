package domain

// Quest квест (комната), для которого строится расписание
// Владельцем сущности является слой контента, движок только читает её
type Quest struct {
	ID       int64
	Name     string
	IsActive bool
}
