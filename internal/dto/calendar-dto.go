package dto

// CalendarEntryDTO — событие ленты планового обслуживания.
// Start и End совпадают: длительность не моделируется временем окончания.
type CalendarEntryDTO struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Color      string `json:"color"`
	Status     string `json:"status"`
	Equipment  string `json:"equipment"`
	Team       string `json:"team"`
	Technician string `json:"technician"`
	Overdue    bool   `json:"overdue"`
}
