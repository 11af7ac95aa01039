package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
	"github.com/niaga-platform/service-ads-insights/internal/models"
	"github.com/niaga-platform/service-ads-insights/internal/utils"
)

// GormConnectionStore persists connections in Postgres. Token columns are
// encrypted on write and decrypted on read through the injected Encryptor.
type GormConnectionStore struct {
	db        *gorm.DB
	encryptor *utils.Encryptor
}

func NewGormConnectionStore(db *gorm.DB, encryptor *utils.Encryptor) *GormConnectionStore {
	return &GormConnectionStore{db: db, encryptor: encryptor}
}

func (s *GormConnectionStore) IsConnected(ctx context.Context, shopID string, platform ads.Platform) (bool, error) {
	var conn models.AdPlatformConnection
	err := s.db.WithContext(ctx).
		Where("shop_id = ? AND platform = ?", shopID, string(platform)).
		First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query connection: %w", err)
	}
	return conn.Connected, nil
}

func (s *GormConnectionStore) SetConnected(ctx context.Context, shopID string, platform ads.Platform, connected bool) error {
	conn := models.AdPlatformConnection{
		ShopID:    shopID,
		Platform:  string(platform),
		Connected: connected,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shop_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{"connected", "updated_at"}),
	}).Create(&conn).Error
	if err != nil {
		return fmt.Errorf("upsert connection flag: %w", err)
	}
	return nil
}

func (s *GormConnectionStore) Connections(ctx context.Context, shopID string) (map[ads.Platform]bool, error) {
	var rows []models.AdPlatformConnection
	if err := s.db.WithContext(ctx).Where("shop_id = ?", shopID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	out := map[ads.Platform]bool{
		ads.PlatformGoogle: false,
		ads.PlatformMeta:   false,
	}
	for _, row := range rows {
		out[ads.Platform(row.Platform)] = row.Connected
	}
	return out, nil
}

func (s *GormConnectionStore) SaveGoogleAuth(ctx context.Context, shopID string, auth GoogleAuth) error {
	sealed, err := s.encryptor.Encrypt(auth.RefreshToken)
	if err != nil {
		return fmt.Errorf("encrypt refresh token: %w", err)
	}
	conn := models.GoogleConnection{
		ShopID:       shopID,
		RefreshToken: sealed,
		Email:        auth.Email,
		ManagerID:    auth.ManagerID,
		ManagerName:  auth.ManagerName,
		AccountID:    auth.AccountID,
		AccountName:  auth.AccountName,
		Currency:     auth.Currency,
	}
	if len(auth.AccountsRaw) > 0 {
		conn.AccountsRaw = datatypes.JSON(auth.AccountsRaw)
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shop_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"refresh_token", "email", "manager_id", "manager_name",
			"account_id", "account_name", "currency", "accounts_raw", "updated_at",
		}),
	}).Create(&conn).Error
	if err != nil {
		return fmt.Errorf("upsert google credentials: %w", err)
	}
	return nil
}

func (s *GormConnectionStore) GoogleAuth(ctx context.Context, shopID string) (*GoogleAuth, error) {
	var conn models.GoogleConnection
	err := s.db.WithContext(ctx).Where("shop_id = ?", shopID).First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ads.ErrNotConnected
	}
	if err != nil {
		return nil, fmt.Errorf("query google credentials: %w", err)
	}
	token := s.encryptor.Decrypt(conn.RefreshToken)
	if token == "" {
		return nil, ads.ErrCredentialMissing
	}
	return &GoogleAuth{
		RefreshToken: token,
		Email:        conn.Email,
		ManagerID:    conn.ManagerID,
		ManagerName:  conn.ManagerName,
		AccountID:    conn.AccountID,
		AccountName:  conn.AccountName,
		Currency:     conn.Currency,
		AccountsRaw:  json.RawMessage(conn.AccountsRaw),
	}, nil
}

func (s *GormConnectionStore) SaveMetaAuth(ctx context.Context, shopID string, auth MetaAuth) error {
	sealed, err := s.encryptor.Encrypt(auth.AccessToken)
	if err != nil {
		return fmt.Errorf("encrypt access token: %w", err)
	}
	conn := models.MetaConnection{
		ShopID:        shopID,
		AccessToken:   sealed,
		AccountID:     auth.AccountID,
		AdAccountID:   auth.AdAccountID,
		AdAccountName: auth.AdAccountName,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shop_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "account_id", "ad_account_id", "ad_account_name", "updated_at",
		}),
	}).Create(&conn).Error
	if err != nil {
		return fmt.Errorf("upsert meta credentials: %w", err)
	}
	return nil
}

func (s *GormConnectionStore) MetaAuth(ctx context.Context, shopID string) (*MetaAuth, error) {
	var conn models.MetaConnection
	err := s.db.WithContext(ctx).Where("shop_id = ?", shopID).First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ads.ErrNotConnected
	}
	if err != nil {
		return nil, fmt.Errorf("query meta credentials: %w", err)
	}
	token := s.encryptor.Decrypt(conn.AccessToken)
	if token == "" {
		return nil, ads.ErrCredentialMissing
	}
	return &MetaAuth{
		AccessToken:   token,
		AccountID:     conn.AccountID,
		AdAccountID:   conn.AdAccountID,
		AdAccountName: conn.AdAccountName,
	}, nil
}
