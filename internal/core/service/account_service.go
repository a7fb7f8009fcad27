package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/cold-storage/internal/core/domain"
	"github.com/rl1809/cold-storage/internal/port"
)

type AddEmployeeInput struct {
	OrgID    string `validate:"required"`
	Name     string `validate:"required,notblank"`
	Phone    string
	Username string `validate:"required,notblank"`
	Password string `validate:"required,min=6"`
}

type BootstrapInput struct {
	OrgName  string `validate:"required,notblank"`
	Name     string `validate:"required,notblank"`
	Phone    string
	Username string `validate:"required,notblank"`
	Password string `validate:"required,min=6"`
}

// AccountService covers login, the employee roster and tenant settings.
// None of it takes part in lot allocation.
type AccountService struct {
	profiles port.ProfileRepository
	orgs     port.OrganizationRepository
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAccountService(profiles port.ProfileRepository, orgs port.OrganizationRepository, logger *zap.Logger) *AccountService {
	return &AccountService{
		profiles: profiles,
		orgs:     orgs,
		validate: newValidator(),
		logger:   logger,
	}
}

func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	profile, err := s.profiles.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Info("login failed", zap.String("username", username))
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed", zap.String("username", username))
		return nil, domain.ErrInvalidCredentials
	}

	org, err := s.orgs.FindOrganization(ctx, profile.OrgID)
	if err != nil {
		return nil, fmt.Errorf("find organization: %w", err)
	}

	return &domain.Session{Profile: *profile, Organization: *org}, nil
}

// Bootstrap creates a tenant together with its first manager account.
func (s *AccountService) Bootstrap(ctx context.Context, in BootstrapInput) (*domain.Session, error) {
	in.Username = normalizeUsername(in.Username)
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	org := domain.Organization{ID: uuid.New().String(), Name: strings.TrimSpace(in.OrgName)}
	if err := s.orgs.CreateOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	profile := domain.Profile{
		ID:           uuid.New().String(),
		OrgID:        org.ID,
		FullName:     in.Name,
		PhoneNumber:  in.Phone,
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         domain.RoleManager,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("create manager: %w", err)
	}

	s.logger.Info("organization bootstrapped", zap.String("org_id", org.ID), zap.String("username", in.Username))
	return &domain.Session{Profile: profile, Organization: org}, nil
}

func (s *AccountService) AddEmployee(ctx context.Context, in AddEmployeeInput) (*domain.Profile, error) {
	in.Username = normalizeUsername(in.Username)
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := domain.Profile{
		ID:           uuid.New().String(),
		OrgID:        in.OrgID,
		FullName:     in.Name,
		PhoneNumber:  in.Phone,
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         domain.RoleEmployee,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.logger.Info("employee created", zap.String("org_id", in.OrgID), zap.String("username", in.Username))
	return &profile, nil
}

func (s *AccountService) ListEmployees(ctx context.Context, orgID string) ([]domain.Profile, error) {
	if orgID == "" {
		return nil, &domain.ValidationError{Field: "orgId", Reason: "is required"}
	}

	profiles, err := s.profiles.ListByRole(ctx, orgID, domain.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	return profiles, nil
}

func (s *AccountService) RemoveEmployee(ctx context.Context, userID string) error {
	if userID == "" {
		return &domain.ValidationError{Field: "userId", Reason: "is required"}
	}
	if err := s.profiles.DeleteProfile(ctx, userID); err != nil {
		return fmt.Errorf("delete profile %s: %w", userID, err)
	}
	return nil
}

// UpdateWatermark stores an opaque asset reference; only receipts read it.
func (s *AccountService) UpdateWatermark(ctx context.Context, orgID, watermarkURL string) error {
	if orgID == "" {
		return &domain.ValidationError{Field: "orgId", Reason: "is required"}
	}
	if err := s.orgs.UpdateWatermark(ctx, orgID, watermarkURL); err != nil {
		return fmt.Errorf("update watermark: %w", err)
	}
	return nil
}

// normalizeUsername keeps the part before any "@" so that people who type
// an email address still log in with their user id.
func normalizeUsername(username string) string {
	before, _, _ := strings.Cut(username, "@")
	return strings.TrimSpace(before)
}
