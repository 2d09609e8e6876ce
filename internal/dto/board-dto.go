package dto

// BoardColumnDTO — колонка канбан-доски. Колонки идут в фиксированном
// порядке статусов и присутствуют все, даже пустые.
type BoardColumnDTO struct {
	Status   string       `json:"status"`
	Requests []RequestDTO `json:"requests"`
}
