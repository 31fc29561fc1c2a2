package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/farm-directory-api/internal/application/dto"
	"github.com/jhoicas/farm-directory-api/internal/domain"
	"github.com/jhoicas/farm-directory-api/internal/domain/access"
	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
	"github.com/jhoicas/farm-directory-api/internal/domain/repository"
	"github.com/jhoicas/farm-directory-api/pkg/jwt"
)

// MinPasswordLength counted in characters, not bytes.
const MinPasswordLength = 8

// JWTConfig token issuance settings.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// SeedAccount an account created at bootstrap or by the seed command.
type SeedAccount struct {
	Email    string
	Password string
	Name     string
	Role     entity.Role
	Status   entity.UserStatus
}

// AuthUseCase registration, login and credential verification.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	jwtCfg     JWTConfig
	bcryptCost int
	dummyHash  []byte
	now        func() time.Time
}

// NewAuthUseCase builds the use case. bcryptCost <= 0 uses bcrypt.DefaultCost.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, bcryptCost int) *AuthUseCase {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if jwtCfg.ExpMinutes <= 0 {
		jwtCfg.ExpMinutes = 60
	}
	// Compared against on unknown emails so both login failures cost one bcrypt run.
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	if err != nil {
		dummy = nil
	}
	return &AuthUseCase{
		userRepo:   userRepo,
		jwtCfg:     jwtCfg,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
		now:        time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

// TokenTTL lifetime of issued credentials.
func (uc *AuthUseCase) TokenTTL() time.Duration {
	return time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute
}

// RegisterUser creates a pending account. A duplicate email yields the generic ErrRegistrationFailed.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user, err := uc.newUser(email, in.Password, name, entity.RoleUser, entity.UserPendingApproval)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.ErrRegistrationFailed
		}
		return nil, err
	}
	return &dto.RegisterResponse{
		Message: "User registered. Waiting for admin approval.",
		UserID:  user.ID,
	}, nil
}

// Login verifies the credentials and issues a session token.
// Non-approved accounts may log in; their status travels in the token.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		if uc.dummyHash != nil {
			_ = bcrypt.CompareHashAndPassword(uc.dummyHash, []byte(in.Password))
		}
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	issued := uc.now()
	token, err := jwt.GenerateAt(uc.jwtCfg.Secret, user.ID, string(user.Role), string(user.Status), uc.jwtCfg.Issuer, uc.TokenTTL(), issued)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Message:   "Logged in",
		Token:     token,
		ExpiresAt: issued.Add(uc.TokenTTL()).UTC(),
		User:      ToUserResponse(user),
	}, nil
}

// Me returns the caller's current account.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	out := ToUserResponse(user)
	return &out, nil
}

// Verify checks a session token and returns the caller identity.
func (uc *AuthUseCase) Verify(token string) (access.Identity, error) {
	if token == "" {
		return access.Identity{}, domain.ErrMissingToken
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return access.Identity{}, fmt.Errorf("%w: %w", domain.ErrTokenExpired, err)
		}
		return access.Identity{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	return access.Identity{
		UserID: claims.UserID,
		Role:   entity.Role(claims.Role),
		Status: entity.UserStatus(claims.Status),
	}, nil
}

// EnsureAdmin creates a pre-approved admin when there are no accounts yet.
// Returns true when an account was created.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, seed SeedAccount) (bool, error) {
	n, err := uc.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	seed.Role = entity.RoleAdmin
	seed.Status = entity.UserApproved
	return uc.EnsureAccount(ctx, seed)
}

// EnsureAccount creates seed unless its email is already registered.
// Returns true when an account was created.
func (uc *AuthUseCase) EnsureAccount(ctx context.Context, seed SeedAccount) (bool, error) {
	email := normalizeEmail(seed.Email)
	if email == "" || seed.Password == "" {
		return false, fmt.Errorf("%w: seed email and password are required", domain.ErrInvalidInput)
	}
	if !seed.Role.Valid() {
		return false, fmt.Errorf("%w: role %q", domain.ErrInvalidInput, seed.Role)
	}
	if !seed.Status.Valid() {
		return false, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, seed.Status)
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	name := strings.TrimSpace(seed.Name)
	if name == "" {
		name = email
	}
	user, err := uc.newUser(email, seed.Password, name, seed.Role, seed.Status)
	if err != nil {
		return false, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (uc *AuthUseCase) newUser(email, password, name string, role entity.Role, status entity.UserStatus) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password longer than 72 bytes", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := uc.now().UTC()
	return &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ToUserResponse strips credentials.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
}
