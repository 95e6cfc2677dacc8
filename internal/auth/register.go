package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/partysnap/partysnap-backend/internal/suppliers"
	"github.com/partysnap/partysnap-backend/internal/users"
	"github.com/partysnap/partysnap-backend/pkg/config"
	"github.com/partysnap/partysnap-backend/pkg/db"
	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
	"github.com/partysnap/partysnap-backend/pkg/security"
	"github.com/partysnap/partysnap-backend/pkg/visibility"
)

// RegisterRequest contains the payload for onboarding a parent account.
type RegisterRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	Phone     *string `json:"phone,omitempty"`
	AcceptTOS bool    `json:"accept_tos"`
}

// SupplierRegisterRequest onboards a supplier account plus their listing in
// one transaction. The listing starts unverified and stays out of the
// directory until an admin approves it.
type SupplierRegisterRequest struct {
	FirstName    string                 `json:"first_name" validate:"required"`
	LastName     string                 `json:"last_name" validate:"required"`
	Email        string                 `json:"email" validate:"required,email"`
	Password     string                 `json:"password" validate:"required,min=8"`
	Phone        *string                `json:"phone,omitempty"`
	BusinessName string                 `json:"business_name" validate:"required"`
	Category     enums.SupplierCategory `json:"category" validate:"required"`
	Description  *string                `json:"description,omitempty"`
	Postcode     string                 `json:"postcode" validate:"required"`
	InstantBook  bool                   `json:"instant_book"`
	AcceptTOS    bool                   `json:"accept_tos"`
}

// RegisterService handles the onboarding transactions.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
	RegisterSupplier(ctx context.Context, req SupplierRegisterRequest) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type registerSupplierRepository interface {
	Create(ctx context.Context, dto suppliers.CreateSupplierDTO) (*models.Supplier, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
// The repo factories default to the real repositories bound to the tx.
type RegisterServiceParams struct {
	TxRunner            txRunner
	UserRepoFactory     func(tx *gorm.DB) registerUserRepository
	SupplierRepoFactory func(tx *gorm.DB) registerSupplierRepository
	PasswordConfig      config.PasswordConfig
}

type registerService struct {
	tx           txRunner
	userRepo     func(tx *gorm.DB) registerUserRepository
	supplierRepo func(tx *gorm.DB) registerSupplierRepository
	passwordCfg  config.PasswordConfig
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
	if params.SupplierRepoFactory == nil {
		params.SupplierRepoFactory = func(tx *gorm.DB) registerSupplierRepository {
			return suppliers.NewRepository(tx)
		}
	}
	return &registerService{
		tx:           params.TxRunner,
		userRepo:     params.UserRepoFactory,
		supplierRepo: params.SupplierRepoFactory,
		passwordCfg:  params.PasswordConfig,
	}, nil
}

// NewRegisterServiceWithDB is the production wiring over the shared client.
func NewRegisterServiceWithDB(client *db.Client, passwordCfg config.PasswordConfig) (RegisterService, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return NewRegisterService(RegisterServiceParams{
		TxRunner:       client,
		PasswordConfig: passwordCfg,
	})
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	email, passwordHash, err := s.prepareCredentials(req.Email, req.Password, req.AcceptTOS)
	if err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		if err := ensureEmailFree(ctx, userRepo, email); err != nil {
			return err
		}

		if _, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			Role:         enums.RoleParent,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		return nil
	})
}

func (s *registerService) RegisterSupplier(ctx context.Context, req SupplierRegisterRequest) error {
	email, passwordHash, err := s.prepareCredentials(req.Email, req.Password, req.AcceptTOS)
	if err != nil {
		return err
	}
	if !req.Category.IsValid() || req.Category == enums.CategoryEInvites {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid supplier category")
	}
	postcode := visibility.NormalizePostcode(req.Postcode)
	if postcode == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "postcode is required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		supplierRepo := s.supplierRepo(tx)

		if err := ensureEmailFree(ctx, userRepo, email); err != nil {
			return err
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			Role:         enums.RoleSupplier,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if _, err := supplierRepo.Create(ctx, suppliers.CreateSupplierDTO{
			UserID:      &user.ID,
			Name:        req.BusinessName,
			Category:    req.Category,
			Description: req.Description,
			Email:       email,
			Postcode:    postcode,
			InstantBook: req.InstantBook,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create supplier listing")
		}
		return nil
	})
}

func (s *registerService) prepareCredentials(email, password string, acceptTOS bool) (string, string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !acceptTOS {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "accept_tos must be true")
	}

	passwordHash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	return normalized, passwordHash, nil
}

func ensureEmailFree(ctx context.Context, repo registerUserRepository, email string) error {
	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}
	return nil
}
