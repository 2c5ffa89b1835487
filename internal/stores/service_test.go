package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warungkita/warung-pos-backend/pkg/db/models"
	"github.com/warungkita/warung-pos-backend/pkg/enums"
	pkgerrors "github.com/warungkita/warung-pos-backend/pkg/errors"
)

type stubStoreRepo struct {
	store   *models.Store
	err     error
	updated *models.Store
}

func (s *stubStoreRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.store, nil
}

func (s *stubStoreRepo) Update(ctx context.Context, store *models.Store) error {
	s.updated = store
	return nil
}

type stubUsersRepo struct {
	user *models.User
	err  error
}

func (s stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func baseStore() *models.Store {
	phone := "+62811111111"
	return &models.Store{
		ID:      uuid.New(),
		Name:    "Warung Bu Sari",
		Phone:   &phone,
		OwnerID: uuid.New(),
	}
}

func ownerFor(store *models.Store) *models.User {
	return &models.User{
		ID:      store.OwnerID,
		Role:    enums.MemberRoleOwner,
		StoreID: store.ID,
	}
}

func stringPtr(v string) *string { return &v }

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil, stubUsersRepo{})
	if err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestNewServiceRequiresUsersRepo(t *testing.T) {
	_, err := NewService(&stubStoreRepo{}, nil)
	if err == nil {
		t.Fatal("expected error creating service without users repo")
	}
}

func TestServiceGetByIDSuccess(t *testing.T) {
	store := baseStore()
	svc, err := NewService(&stubStoreRepo{store: store}, stubUsersRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetByID(context.Background(), store.ID)
	if err != nil {
		t.Fatalf("get store: %v", err)
	}
	if dto.ID != store.ID {
		t.Fatalf("expected id %s got %s", store.ID, dto.ID)
	}
	if dto.Name != store.Name {
		t.Fatalf("expected name %s got %s", store.Name, dto.Name)
	}
	if dto.Phone == nil || *dto.Phone != *store.Phone {
		t.Fatalf("expected phone %q got %v", *store.Phone, dto.Phone)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc, err := NewService(&stubStoreRepo{err: gorm.ErrRecordNotFound}, stubUsersRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestServiceGetByIDDependencyError(t *testing.T) {
	svc, err := NewService(&stubStoreRepo{err: errors.New("boom")}, stubUsersRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", gotErr)
	}
}

func TestServiceUpdateSuccess(t *testing.T) {
	store := baseStore()
	repo := &stubStoreRepo{store: store}
	svc, err := NewService(repo, stubUsersRepo{user: ownerFor(store)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	newAddress := "Jl. Merdeka No. 7"
	input := UpdateStoreInput{
		Name:    stringPtr("Warung Sejahtera"),
		Address: &newAddress,
	}

	dto, err := svc.Update(context.Background(), store.OwnerID, store.ID, input)
	if err != nil {
		t.Fatalf("update store: %v", err)
	}
	if dto.Name != "Warung Sejahtera" {
		t.Fatalf("expected name updated, got %s", dto.Name)
	}
	if dto.Address == nil || *dto.Address != newAddress {
		t.Fatalf("expected address %q got %v", newAddress, dto.Address)
	}
	if repo.updated == nil {
		t.Fatal("expected repo update to be called")
	}
}

func TestServiceUpdateRejectsNonOwner(t *testing.T) {
	store := baseStore()
	cashier := &models.User{ID: uuid.New(), Role: enums.MemberRoleCashier, StoreID: store.ID}
	svc, err := NewService(&stubStoreRepo{store: store}, stubUsersRepo{user: cashier})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Update(context.Background(), cashier.ID, store.ID, UpdateStoreInput{Name: stringPtr("x")})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", gotErr)
	}
}

func TestServiceUpdateRejectsForeignStore(t *testing.T) {
	store := baseStore()
	owner := ownerFor(store)
	owner.StoreID = uuid.New()
	svc, err := NewService(&stubStoreRepo{store: store}, stubUsersRepo{user: owner})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Update(context.Background(), owner.ID, store.ID, UpdateStoreInput{Name: stringPtr("x")})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", gotErr)
	}
}

func TestServiceUpdateRejectsEmptyName(t *testing.T) {
	store := baseStore()
	svc, err := NewService(&stubStoreRepo{store: store}, stubUsersRepo{user: ownerFor(store)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Update(context.Background(), store.OwnerID, store.ID, UpdateStoreInput{Name: stringPtr("   ")})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}
