package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64        `json:"id" db:"id"`
	Username     string       `json:"username" db:"username"`
	PasswordHash string       `json:"-" db:"password"`
	Role         Role         `json:"role" db:"role"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	LastLogin    sql.NullTime `json:"-" db:"last_login"`
}

type Machine struct {
	ID        int64         `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Location  string        `json:"location" db:"location"`
	Status    MachineStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

type Snack struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Stock      int       `json:"stock" db:"stock"`
	ExpiryDate string    `json:"expiry_date" db:"expiry_date"` // YYYY-MM-DD
	Price      float64   `json:"price" db:"price"`
	Category   string    `json:"category" db:"category"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Update is one vendor ledger entry. Vendor and Machine are names, not ids.
type Update struct {
	ID      int64      `json:"id" db:"id"`
	Vendor  string     `json:"vendor" db:"vendor"`
	Machine string     `json:"machine" db:"machine"`
	Info    string     `json:"info" db:"info"`
	Time    string     `json:"time" db:"time"`
	Type    UpdateType `json:"update_type" db:"update_type"`
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// SnackExpiry pairs a snack with the whole days left until its expiry date.
// Negative values mean the snack has already expired.
type SnackExpiry struct {
	Snack
	DaysLeft int `json:"days_left"`
}

// Count is one row of an activity ranking.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Outcome reports a committed write together with the result of the
// artifact regeneration that followed it.
type Outcome struct {
	ID          int64
	Name        string
	ArtifactErr error
}
