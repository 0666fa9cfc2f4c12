package model

import "time"

type Customer struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        *string   `db:"email" json:"email"`
	Phone        *string   `db:"phone" json:"phone"`
	Address      *string   `db:"address" json:"address"`
	BusinessName *string   `db:"business_name" json:"business_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Supplier struct {
	ID            int64      `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Address       *string    `db:"address" json:"address"`
	ContactPerson *string    `db:"contact_person" json:"contact_person"`
	Phone         *string    `db:"phone" json:"phone"`
	Email         *string    `db:"email" json:"email"`
	Source        string     `db:"source" json:"source"`
	JoinDate      *time.Time `db:"join_date" json:"join_date"`
}
