package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the legacy multi-user account table. The admin gate replaced
// per-user login, but the table is kept so existing rows survive upgrades.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID            string    `bun:"id,pk"`
	GoogleID      string    `bun:"google_id,unique"`
	Email         string    `bun:"email,notnull,unique"`
	Name          string    `bun:"name,notnull"`
	Picture       string    `bun:"picture"`
	EmailVerified bool      `bun:"email_verified,notnull,default:false"`
	LastLogin     time.Time `bun:"last_login"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}
