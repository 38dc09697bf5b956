package model

import "time"

// LinkRecord is the stored association between a user-chosen keyword, its
// target URL, its expiration time, and its creator. The keyword is the map
// key in the persisted layout, so it is not serialized with the record.
type LinkRecord struct {
	Keyword        string    `json:"-"`
	OriginalURL    string    `json:"original_url"`
	ExpirationDate time.Time `json:"expiration_date"`
	Owner          string    `json:"username"`
	CreatedAt      time.Time `json:"created_at"`
}

// Expired reports whether the record is logically inactive at the given time.
// The redirect is honored only while now < ExpirationDate.
func (l LinkRecord) Expired(now time.Time) bool {
	return !now.Before(l.ExpirationDate)
}

// ContactMessage is a stored contact-form submission. Delivered records
// whether the notification email reached the transport successfully.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Delivered bool      `json:"delivered"`
}
