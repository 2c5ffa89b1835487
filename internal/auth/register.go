package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warungkita/warung-pos-backend/internal/stores"
	"github.com/warungkita/warung-pos-backend/internal/users"
	"github.com/warungkita/warung-pos-backend/pkg/config"
	"github.com/warungkita/warung-pos-backend/pkg/db/models"
	"github.com/warungkita/warung-pos-backend/pkg/enums"
	pkgerrors "github.com/warungkita/warung-pos-backend/pkg/errors"
	"github.com/warungkita/warung-pos-backend/pkg/security"
)

// RegisterRequest contains the payload for onboarding a new warung: the owner
// account and the store are created together.
type RegisterRequest struct {
	FullName     string  `json:"full_name" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	Phone        *string `json:"phone,omitempty"`
	StoreName    string  `json:"store_name" validate:"required"`
	StoreAddress *string `json:"store_address,omitempty"`
	StorePhone   *string `json:"store_phone,omitempty"`
}

// RegisterResponse returns the created owner and store.
type RegisterResponse struct {
	User  *users.UserDTO   `json:"user"`
	Store *stores.StoreDTO `json:"store"`
}

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type registerStoreRepository interface {
	Create(ctx context.Context, dto stores.CreateStoreDTO) (*models.Store, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
// The repo factories default to the real repositories bound to the
// transaction; tests substitute stubs.
type RegisterServiceParams struct {
	TxRunner         txRunner
	UserRepoFactory  func(tx *gorm.DB) registerUserRepository
	StoreRepoFactory func(tx *gorm.DB) registerStoreRepository
	PasswordConfig   config.PasswordConfig
}

type registerService struct {
	tx          txRunner
	userRepos   func(tx *gorm.DB) registerUserRepository
	storeRepos  func(tx *gorm.DB) registerStoreRepository
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.UserRepoFactory == nil {
		params.UserRepoFactory = func(tx *gorm.DB) registerUserRepository {
			return users.NewRepository(tx)
		}
	}
	if params.StoreRepoFactory == nil {
		params.StoreRepoFactory = func(tx *gorm.DB) registerStoreRepository {
			return stores.NewRepository(tx)
		}
	}
	return &registerService{
		tx:          params.TxRunner,
		userRepos:   params.UserRepoFactory,
		storeRepos:  params.StoreRepoFactory,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if strings.TrimSpace(req.StoreName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if len(req.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var response *RegisterResponse
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepos(tx)
		storeRepo := s.storeRepos(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		// users.store_id references stores, so the store row goes in
		// first. stores.owner_id carries no constraint and can hold the
		// owner's pre-generated id.
		ownerID := uuid.New()

		store, err := storeRepo.Create(ctx, stores.CreateStoreDTO{
			Name:    strings.TrimSpace(req.StoreName),
			Address: req.StoreAddress,
			Phone:   req.StorePhone,
			OwnerID: ownerID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create store")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			ID:           ownerID,
			Email:        email,
			PasswordHash: passwordHash,
			FullName:     strings.TrimSpace(req.FullName),
			Phone:        req.Phone,
			Role:         enums.MemberRoleOwner,
			StoreID:      store.ID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		response = &RegisterResponse{
			User:  users.FromModel(user),
			Store: stores.FromModel(store),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
