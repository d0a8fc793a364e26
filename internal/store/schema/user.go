package schema

import (
	"time"
)

// User represents the users table - marketplace identities keyed by their external Pi Network ID
type User struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// PiUserID is the external identity key from the Pi Network
	PiUserID string `gorm:"column:pi_user_id;not null;uniqueIndex;type:text"`
	// Username is an optional display name
	Username string `gorm:"column:username;type:text"`
	// TotalEarnings accumulates proceeds from completed sales
	TotalEarnings float64 `gorm:"column:total_earnings;not null;default:0"`
	// TotalSales counts completed sales
	TotalSales int64 `gorm:"column:total_sales;not null;default:0"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
