package dto

type DashboardCountByGroup struct {
	GroupName string `json:"group_name" db:"group_name"`
	Count     int64  `json:"count" db:"count"`
}

type DashboardStatsDTO struct {
	TotalEquipment    int64 `json:"total_equipment"`
	ScrappedEquipment int64 `json:"scrapped_equipment"`
	TotalRequests     int64 `json:"total_requests"`
	OpenRequests      int64 `json:"open_requests"`
	OverdueRequests   int64 `json:"overdue_requests"`
	CompletedToday    int64 `json:"completed_today"`

	StatusBreakdown []DashboardCountByGroup `json:"status_breakdown"`
	KindBreakdown   []DashboardCountByGroup `json:"kind_breakdown"`

	RecentRequests []RequestDTO `json:"recent_requests"`
}
