package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warungkita/warung-pos-backend/internal/stores"
	"github.com/warungkita/warung-pos-backend/internal/users"
	"github.com/warungkita/warung-pos-backend/pkg/db/models"
	"github.com/warungkita/warung-pos-backend/pkg/enums"
	pkgerrors "github.com/warungkita/warung-pos-backend/pkg/errors"
	"github.com/warungkita/warung-pos-backend/pkg/security"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRegisterUserRepo struct {
	existing map[string]*models.User
	created  []users.CreateUserDTO
}

func (s *stubRegisterUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.existing[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRegisterUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	s.created = append(s.created, dto)
	return dto.ToModel(), nil
}

type stubRegisterStoreRepo struct {
	created []stores.CreateStoreDTO
}

func (s *stubRegisterStoreRepo) Create(ctx context.Context, dto stores.CreateStoreDTO) (*models.Store, error) {
	s.created = append(s.created, dto)
	id := dto.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &models.Store{
		ID:      id,
		Name:    dto.Name,
		Address: dto.Address,
		Phone:   dto.Phone,
		OwnerID: dto.OwnerID,
	}, nil
}

type registerTestSetup struct {
	svc       RegisterService
	userRepo  *stubRegisterUserRepo
	storeRepo *stubRegisterStoreRepo
}

func newRegisterTestSetup(t *testing.T) *registerTestSetup {
	t.Helper()
	userRepo := &stubRegisterUserRepo{existing: map[string]*models.User{}}
	storeRepo := &stubRegisterStoreRepo{}
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner:         stubTxRunner{},
		UserRepoFactory:  func(tx *gorm.DB) registerUserRepository { return userRepo },
		StoreRepoFactory: func(tx *gorm.DB) registerStoreRepository { return storeRepo },
		PasswordConfig:   testPasswordConfig,
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return &registerTestSetup{svc: svc, userRepo: userRepo, storeRepo: storeRepo}
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		FullName:  "Pak Budi",
		Email:     "Pak.Budi@Warung.ID",
		Password:  "rahasia-123",
		StoreName: "Warung Budi Jaya",
	}
}

func TestRegisterCreatesOwnerAndStore(t *testing.T) {
	setup := newRegisterTestSetup(t)

	resp, err := setup.svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if resp.User == nil || resp.Store == nil {
		t.Fatal("expected user and store in response")
	}
	if resp.User.Email != "pak.budi@warung.id" {
		t.Fatalf("expected normalized email, got %s", resp.User.Email)
	}
	if resp.User.Role != enums.MemberRoleOwner {
		t.Fatalf("expected owner role, got %s", resp.User.Role)
	}
	if resp.User.StoreID != resp.Store.ID {
		t.Fatalf("user store id %s does not match store %s", resp.User.StoreID, resp.Store.ID)
	}
	if resp.Store.OwnerID != resp.User.ID {
		t.Fatalf("store owner %s does not match user %s", resp.Store.OwnerID, resp.User.ID)
	}

	if len(setup.userRepo.created) != 1 {
		t.Fatalf("expected one user insert, got %d", len(setup.userRepo.created))
	}
	created := setup.userRepo.created[0]
	if created.PasswordHash == "" || created.PasswordHash == "rahasia-123" {
		t.Fatal("expected password to be hashed before insert")
	}
	ok, err := security.VerifyPassword("rahasia-123", created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}

	if len(setup.storeRepo.created) != 1 {
		t.Fatalf("expected one store insert, got %d", len(setup.storeRepo.created))
	}
	if setup.storeRepo.created[0].OwnerID != created.ID {
		t.Fatal("store insert must carry the owner id assigned to the user")
	}
	if created.StoreID != resp.Store.ID {
		t.Fatal("user insert must reuse the id of the store created before it")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setup := newRegisterTestSetup(t)
	setup.userRepo.existing["pak.budi@warung.id"] = &models.User{ID: uuid.New()}

	_, err := setup.svc.Register(context.Background(), validRegisterRequest())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(setup.userRepo.created) != 0 || len(setup.storeRepo.created) != 0 {
		t.Fatal("expected no inserts on duplicate email")
	}
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing email", func(r *RegisterRequest) { r.Email = "  " }},
		{"missing full name", func(r *RegisterRequest) { r.FullName = "" }},
		{"missing store name", func(r *RegisterRequest) { r.StoreName = " " }},
		{"short password", func(r *RegisterRequest) { r.Password = "pendek" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setup := newRegisterTestSetup(t)
			req := validRegisterRequest()
			tc.mutate(&req)

			_, err := setup.svc.Register(context.Background(), req)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
