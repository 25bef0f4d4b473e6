package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/repository"
	"github.com/iliyamo/farm-market/internal/store"
	"github.com/iliyamo/farm-market/internal/utils"
)

// AdminID and AdminName identify the synthetic administrator account. It is
// never stored in the users collection.
const (
	AdminID   = "admin-1"
	AdminName = "Admin"
)

// ErrInvalidCredentials is returned by Login when no account matches.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialCheck decides whether password unlocks u.
type CredentialCheck interface {
	Check(u model.User, password string) bool
}

// StubCredentialCheck accepts any password for a user found by email and
// role. Accounts are not protected by their password under this check.
type StubCredentialCheck struct{}

func (StubCredentialCheck) Check(model.User, string) bool { return true }

// BcryptCredentialCheck compares the password with the bcrypt hash stored
// at registration. Users registered without a password cannot log in.
type BcryptCredentialCheck struct{}

func (BcryptCredentialCheck) Check(u model.User, password string) bool {
	return utils.VerifyPassword(u.PasswordHash, password)
}

// AdminCredential is the single configured administrator login. An empty
// email disables it.
type AdminCredential struct {
	Email    string
	Password string
}

func (a AdminCredential) matches(email, password string) bool {
	return a.Email != "" && a.Password != "" && strings.EqualFold(strings.TrimSpace(email), a.Email) && password == a.Password
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
	Role     string `json:"role" validate:"required,oneof=farmer buyer"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Aadhaar  string `json:"aadhaar"`
	Location string `json:"location"`
}

// IdentityService handles login, registration and the mirrored session.
type IdentityService struct {
	users      *repository.UserRepo
	session    *store.Document[model.User]
	check      CredentialCheck
	admin      AdminCredential
	bcryptCost int
	now        Clock
	newID      IDFunc
}

func NewIdentityService(users *repository.UserRepo, session *store.Document[model.User], check CredentialCheck, admin AdminCredential, bcryptCost int) *IdentityService {
	if check == nil {
		check = StubCredentialCheck{}
	}
	return &IdentityService{
		users:      users,
		session:    session,
		check:      check,
		admin:      admin,
		bcryptCost: bcryptCost,
		now:        systemClock,
		newID:      newUUID,
	}
}

// Login resolves the account for email and role and makes it the current
// session. The configured admin pair yields the synthetic admin record.
func (s *IdentityService) Login(ctx context.Context, email, password string, role model.Role) (model.User, error) {
	if role == model.RoleAdmin && s.admin.matches(email, password) {
		u := model.User{ID: AdminID, Email: strings.ToLower(s.admin.Email), Role: model.RoleAdmin, Name: AdminName}
		return u, s.setSession(ctx, u)
	}

	u, err := s.users.FindByEmailAndRole(ctx, email, role)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}
	if !s.check.Check(u, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, s.setSession(ctx, u)
}

// Register creates a farmer or buyer account and logs it in.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct("missing or invalid registration fields", in); err != nil {
		return model.User{}, err
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{
		ID:           s.newID(),
		Email:        in.Email,
		Role:         model.Role(in.Role),
		Name:         in.Name,
		Phone:        in.Phone,
		Aadhaar:      in.Aadhaar,
		Location:     in.Location,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return model.User{}, err
	}
	// Create normalizes the email; mirror that in the returned record.
	u.Email = strings.ToLower(u.Email)
	return u, s.setSession(ctx, u)
}

// Logout clears the session record. Users are not touched.
func (s *IdentityService) Logout(ctx context.Context) error {
	return s.session.Clear(ctx)
}

// Current returns the session record, ok=false when nobody is logged in.
func (s *IdentityService) Current(ctx context.Context) (model.User, bool, error) {
	return s.session.Load(ctx)
}

// setSession mirrors u without its credential hash or national id.
func (s *IdentityService) setSession(ctx context.Context, u model.User) error {
	u.PasswordHash = ""
	u.Aadhaar = ""
	return s.session.Save(ctx, u)
}
