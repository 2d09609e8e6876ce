package seeders

// Демо-данные для локальной разработки.

type userData struct {
	Fio      string
	Email    string
	Password string
	Role     string
	Teams    []string
}

type teamData struct {
	Name string
}

type equipmentData struct {
	Name         string
	SerialNumber string
	Department   string
	Location     string
	TeamName     string
	AssignedTo   string
}

type requestData struct {
	Subject       string
	Description   string
	EquipmentName string
	Kind          string
	Status        string
	CreatedBy     string
	ScheduledDays int // смещение scheduled_at от сегодня, для Preventive
}

var teamsData = []teamData{
	{Name: "Механики"},
	{Name: "Электрики"},
}

var usersData = []userData{
	{Fio: "Орлов Дмитрий", Email: "manager@gearguard.local", Password: "manager123", Role: "manager"},
	{Fio: "Климов Сергей", Email: "tech.mech@gearguard.local", Password: "tech123", Role: "technician", Teams: []string{"Механики"}},
	{Fio: "Зарипова Алина", Email: "tech.elec@gearguard.local", Password: "tech123", Role: "technician", Teams: []string{"Электрики"}},
	{Fio: "Петров Иван", Email: "user@gearguard.local", Password: "user123", Role: "user"},
}

var equipmentsData = []equipmentData{
	{Name: "Токарный станок ТВ-320", SerialNumber: "TV320-001", Department: "Цех 1", Location: "Пролёт А", TeamName: "Механики", AssignedTo: "user@gearguard.local"},
	{Name: "Компрессор КВ-700", SerialNumber: "KV700-014", Department: "Цех 1", Location: "Пролёт Б", TeamName: "Механики"},
	{Name: "Щит распределительный ЩР-12", SerialNumber: "SR12-103", Department: "Цех 2", Location: "Подстанция", TeamName: "Электрики"},
	{Name: "Кран-балка КБ-5", Department: "Склад", Location: "Склад 2"},
}

var requestsData = []requestData{
	{Subject: "Вибрация шпинделя", Description: "Посторонний шум на высоких оборотах", EquipmentName: "Токарный станок ТВ-320", Kind: "Corrective", Status: "New", CreatedBy: "user@gearguard.local"},
	{Subject: "Плановое ТО компрессора", EquipmentName: "Компрессор КВ-700", Kind: "Preventive", Status: "New", CreatedBy: "manager@gearguard.local", ScheduledDays: 7},
	{Subject: "Ревизия автоматов", EquipmentName: "Щит распределительный ЩР-12", Kind: "Preventive", Status: "In Progress", CreatedBy: "manager@gearguard.local", ScheduledDays: -3},
}
