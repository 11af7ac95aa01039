// Package repository persists ad platform connections and credentials.
// Credential values cross the package boundary as plaintext; encryption is an
// implementation detail of the stores.
package repository

import (
	"context"
	"encoding/json"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
)

// GoogleAuth is the decrypted Google Ads credential set for one shop.
type GoogleAuth struct {
	RefreshToken string
	Email        string
	ManagerID    string
	ManagerName  string
	AccountID    string
	AccountName  string
	Currency     string
	// AccountsRaw is the account list captured during OAuth, kept verbatim.
	AccountsRaw json.RawMessage
}

// MetaAuth is the decrypted Meta Ads credential set for one shop.
type MetaAuth struct {
	AccessToken   string
	AccountID     string
	AdAccountID   string
	AdAccountName string
}

// ConnectionStore is the persistence boundary for connection flags and
// platform credentials. Lookups for shops that never connected return
// ads.ErrNotConnected; a connected flag without usable credentials surfaces
// as ads.ErrCredentialMissing from the auth getters. Credentials are never
// physically deleted: disconnecting flips the connected flag and leaves the
// stored tokens in place so reconnecting skips a fresh OAuth round.
type ConnectionStore interface {
	IsConnected(ctx context.Context, shopID string, platform ads.Platform) (bool, error)
	SetConnected(ctx context.Context, shopID string, platform ads.Platform, connected bool) error
	Connections(ctx context.Context, shopID string) (map[ads.Platform]bool, error)

	SaveGoogleAuth(ctx context.Context, shopID string, auth GoogleAuth) error
	GoogleAuth(ctx context.Context, shopID string) (*GoogleAuth, error)

	SaveMetaAuth(ctx context.Context, shopID string, auth MetaAuth) error
	MetaAuth(ctx context.Context, shopID string) (*MetaAuth, error)
}
