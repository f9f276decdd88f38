package model

// Tutor - строка таблицы Tutors
type Tutor struct {
	TutorID  int64    `json:"tutor_id"` // Telegram ID репетитора
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Percent  *float64 `json:"percent"` // указатель - процент может быть не задан
}
