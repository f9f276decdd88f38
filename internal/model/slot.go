package model

// Slot - окно доступности, которое заявил репетитор
type Slot struct {
	TutorID int64  `json:"tutor_id"`
	DateISO string `json:"date_iso"`
	Time    string `json:"time"`
	Note    string `json:"note"`
}
