// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Address is embedded into User as address_* columns.
type Address struct {
	Street  string `json:"street" gorm:"size:255"`
	City    string `json:"city" gorm:"size:100"`
	State   string `json:"state" gorm:"size:100"`
	ZipCode string `json:"zip_code" gorm:"size:20"`
	Country string `json:"country" gorm:"size:100"`
}

// NotificationPreferences is embedded into User as pref_* columns.
type NotificationPreferences struct {
	EmailNotifications bool `json:"email_notifications" gorm:"default:true"`
	SMSNotifications   bool `json:"sms_notifications" gorm:"default:false"`
	Newsletter         bool `json:"newsletter" gorm:"default:false"`
}

type User struct {
	BaseModel
	Name         string                  `json:"name" gorm:"size:100;not null"`
	Email        string                  `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string                  `json:"-" gorm:"size:255;not null"`
	Role         UserRole                `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	Phone        string                  `json:"phone" gorm:"size:30"`
	Address      Address                 `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	Preferences  NotificationPreferences `json:"preferences" gorm:"embedded;embeddedPrefix:pref_"`

	// plaintext staged by SetPassword, hashed in BeforeSave, never persisted
	pendingPassword string

	// Relationships
	Orders    []Order    `json:"orders,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Reviews   []Review   `json:"reviews,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Wishlists []Wishlist `json:"wishlists,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Cart      *Cart      `json:"cart,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

var hashCost = bcrypt.DefaultCost

// SetHashCost overrides the bcrypt work factor for subsequent writes.
// Out-of-range values are ignored.
func SetHashCost(cost int) {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		hashCost = cost
	}
}

// SetPassword stages a plaintext password for hashing on the next save.
// The hash itself is produced inside the write path (BeforeSave), so a
// password can never reach the database without going through bcrypt.
func (u *User) SetPassword(password string) {
	u.pendingPassword = password
}

// BeforeSave hashes a staged password on both create and update. The hook
// clears the staged value once consumed, so re-saving the same struct does
// not hash twice. A staged value that already parses as a bcrypt digest is
// stored verbatim rather than hashed again.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.pendingPassword == "" {
		return nil
	}

	if _, err := bcrypt.Cost([]byte(u.pendingPassword)); err == nil {
		u.PasswordHash = u.pendingPassword
		u.pendingPassword = ""
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.pendingPassword), hashCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	u.pendingPassword = ""
	return nil
}

// CheckPassword compares a candidate against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
