package dto

type ShortUserDTO struct {
	ID  uint64 `json:"id"`
	Fio string `json:"fio"`
}

type ShortTeamDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ShortEquipmentDTO struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	IsScrapped bool   `json:"is_scrapped"`
}
