package domain

// User is a read-only row from the platform's recipient directory. This
// service never writes users; it only resolves delivery addresses.
type User struct {
	ID             int64  `json:"id" db:"id"`
	FullName       string `json:"full_name" db:"full_name"`
	Email          string `json:"email" db:"email"`
	CountryCode    string `json:"country_code" db:"country_code"`
	WhatsAppNumber string `json:"whatsapp_number" db:"whatsapp_number"`
}
