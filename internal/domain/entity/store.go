package entity

import "time"

// Store representa una tienda del marketplace. UserID es el STORE_ADMIN dueño.
type Store struct {
	ID        string
	UserID    string
	Name      string
	DeletedAt *time.Time
}
