package domain

import "time"

type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

type Organization struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	WatermarkURL string `db:"watermark_url" json:"watermark_url"`
}

type Profile struct {
	ID           string    `db:"id" json:"id"`
	OrgID        string    `db:"org_id" json:"org_id"`
	FullName     string    `db:"full_name" json:"full_name"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Session is what a successful login hands back to the client.
type Session struct {
	Profile      Profile      `json:"profile"`
	Organization Organization `json:"organization"`
}
