package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/warungkita/warung-pos-backend/pkg/db/models"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// newRegisterTestDB mirrors the production schema's reference from
// users.store_id to stores, with enforcement on, so the insert order of the
// registration transaction is actually checked.
func newRegisterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:register_" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	storesSchema := `
CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  address TEXT,
  phone TEXT,
  email TEXT,
  owner_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	usersSchema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL DEFAULT 'cashier',
  store_id TEXT NOT NULL REFERENCES stores (id),
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := db.Exec(storesSchema).Error; err != nil {
		t.Fatalf("create stores schema: %v", err)
	}
	if err := db.Exec(usersSchema).Error; err != nil {
		t.Fatalf("create users schema: %v", err)
	}
	return db
}

func TestRegisterSatisfiesStoreReference(t *testing.T) {
	t.Parallel()

	db := newRegisterTestDB(t)
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner:       gormTxRunner{db: db},
		PasswordConfig: testPasswordConfig,
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}

	resp, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("register against enforced schema: %v", err)
	}

	var user models.User
	if err := db.First(&user, "id = ?", resp.User.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	var store models.Store
	if err := db.First(&store, "id = ?", user.StoreID).Error; err != nil {
		t.Fatalf("load referenced store: %v", err)
	}
	if store.OwnerID != user.ID {
		t.Fatalf("store owner %s does not match user %s", store.OwnerID, user.ID)
	}
}
