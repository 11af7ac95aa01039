// Package models defines the persistence entities of the ads insights
// service.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdPlatformConnection is one shop's link to one advertising platform. The
// flag row is the source of truth for "is this platform connected"; the
// credential rows below hang off it.
type AdPlatformConnection struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShopID    string    `gorm:"index:idx_shop_platform,unique;not null" json:"shop_id"`
	Platform  string    `gorm:"index:idx_shop_platform,unique;not null" json:"platform"`
	Connected bool      `gorm:"default:false" json:"connected"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *AdPlatformConnection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// GoogleConnection stores the Google Ads credential set for a shop. Token
// columns hold ciphertext; encryption happens in the repository layer, never
// here.
type GoogleConnection struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShopID       string    `gorm:"uniqueIndex;not null" json:"shop_id"`
	RefreshToken string    `gorm:"type:text" json:"-"`
	Email        string    `json:"email"`
	ManagerID    string    `json:"manager_id"`
	ManagerName  string    `json:"manager_name"`
	AccountID    string    `json:"account_id"`
	AccountName  string    `json:"account_name"`
	Currency     string    `json:"currency"`
	// AccountsRaw keeps the account list returned during OAuth so the account
	// picker can be re-rendered without another API round trip.
	AccountsRaw datatypes.JSON `gorm:"type:jsonb" json:"accounts_raw,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (c *GoogleConnection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// MetaConnection stores the Meta (Facebook) Ads credential set for a shop.
// AccessToken holds ciphertext.
type MetaConnection struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShopID        string    `gorm:"uniqueIndex;not null" json:"shop_id"`
	AccessToken   string    `gorm:"type:text" json:"-"`
	AccountID     string    `json:"account_id"`
	AdAccountID   string    `json:"ad_account_id"`
	AdAccountName string    `json:"ad_account_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *MetaConnection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// AllModels is the migration set for gorm AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&AdPlatformConnection{},
		&GoogleConnection{},
		&MetaConnection{},
	}
}
