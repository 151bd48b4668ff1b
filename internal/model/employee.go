package model

import "time"

// Employee is a directory entry served by the HR API and cached locally.
type Employee struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Position  string    `json:"position" db:"position"`
	Division  string    `json:"division" db:"division"`
	HiredAt   time.Time `json:"hired_at" db:"hired_at"`
	FetchedAt time.Time `json:"fetched_at" db:"fetched_at"`
}
