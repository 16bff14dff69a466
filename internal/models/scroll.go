package models

import "time"

type Scroll struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	Content   []byte    `json:"-"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	Password  string    `json:"-"`
	Downloads int64     `json:"downloads"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Protected mówi, czy pobranie wymaga hasła.
func (s *Scroll) Protected() bool {
	return s.Password != ""
}
