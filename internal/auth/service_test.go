package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/partysnap/partysnap-backend/pkg/auth"
	"github.com/partysnap/partysnap-backend/pkg/config"
	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
	"github.com/partysnap/partysnap-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "partysnap",
		ExpirationMinutes: 30,
	}
}

func TestServiceLoginParent(t *testing.T) {
	password := "parent-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "parent@example.com",
		PasswordHash: mustHashPassword(t, password),
		FirstName:    "Jamie",
		LastName:     "Rivera",
		Role:         enums.RoleParent,
	}
	cfg := testJWTConfig()

	svc, err := buildTestService(user, nil, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.RoleParent {
		t.Fatalf("expected parent role claim, got %s", claims.Role)
	}
	if claims.SupplierID != nil {
		t.Fatalf("parents must not carry a supplier claim")
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestServiceLoginSupplierCarriesListing(t *testing.T) {
	password := "supplier-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "host@funbarn.example",
		PasswordHash: mustHashPassword(t, password),
		FirstName:    "Priya",
		LastName:     "Shah",
		Role:         enums.RoleSupplier,
	}
	listing := &models.Supplier{
		ID:       uuid.New(),
		UserID:   &user.ID,
		Name:     "The Fun Barn",
		Category: enums.CategoryVenue,
	}
	cfg := testJWTConfig()

	svc, err := buildTestService(user, listing, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.SupplierID == nil || *claims.SupplierID != listing.ID {
		t.Fatalf("expected supplier claim %s, got %v", listing.ID, claims.SupplierID)
	}
	if resp.Supplier == nil || resp.Supplier.ID != listing.ID {
		t.Fatalf("expected supplier in response")
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "parent@example.com",
		PasswordHash: mustHashPassword(t, "right"),
		Role:         enums.RoleParent,
	}

	svc, err := buildTestService(user, nil, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceAdminLoginRejectsNonAdmin(t *testing.T) {
	password := "parent-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "parent@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.RoleParent,
	}

	svc, err := buildTestService(user, nil, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.AdminLogin(context.Background(), LoginRequest{Email: user.Email, Password: password})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func buildTestService(user *models.User, listing *models.Supplier, jwtCfg config.JWTConfig) (Service, error) {
	return NewService(ServiceParams{
		UserRepo:       stubLoginUserRepo{user: user},
		SupplierRepo:   stubLoginSupplierRepo{supplier: listing},
		SessionManager: &stubSessionManager{refreshToken: "refresh-token"},
		JWTConfig:      jwtCfg,
	})
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubLoginUserRepo struct {
	user *models.User
}

func (s stubLoginUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s stubLoginUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type stubLoginSupplierRepo struct {
	supplier *models.Supplier
}

func (s stubLoginSupplierRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Supplier, error) {
	if s.supplier == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.supplier, nil
}

type stubSessionManager struct {
	refreshToken string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}
