package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rewardsuite/rms-backend/internal/models"
	"github.com/rewardsuite/rms-backend/internal/repositories"
	"github.com/rewardsuite/rms-backend/pkg/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles registration and login for admins and customers
type AuthServiceImpl struct {
	adminRepo    repositories.AdminUserRepository
	customerRepo repositories.CustomerRepository
	tokens       *token.Service
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(
	adminRepo repositories.AdminUserRepository,
	customerRepo repositories.CustomerRepository,
	tokens *token.Service,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		adminRepo:    adminRepo,
		customerRepo: customerRepo,
		tokens:       tokens,
	}
}

// RegisterAdmin creates a business owner account
func (s *AuthServiceImpl) RegisterAdmin(ctx context.Context, req *models.AdminRegisterRequest) (*models.AdminUser, error) {
	if _, err := s.adminRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check existing admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.AdminUser{
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Password:     string(hashed),
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("Admin registered", "adminId", admin.ID.Hex(), "business", admin.BusinessName)
	admin.Password = ""
	return admin, nil
}

// LoginAdmin verifies credentials and issues an admin token
func (s *AuthServiceImpl) LoginAdmin(ctx context.Context, req *models.LoginRequest) (string, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Generate(admin.ID.Hex(), models.RoleAdmin, admin.Email)
}

// RegisterCustomer creates a customer account enrolled with a business
func (s *AuthServiceImpl) RegisterCustomer(ctx context.Context, req *models.CustomerRegisterRequest) (*models.Customer, error) {
	adminID, err := primitive.ObjectIDFromHex(req.AdminID)
	if err != nil {
		return nil, errors.New("invalid adminId")
	}
	if _, err := s.adminRepo.FindByID(ctx, adminID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("business not found")
		}
		return nil, fmt.Errorf("failed to check business: %w", err)
	}

	if _, err := s.customerRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check existing customer: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer := &models.Customer{
		AdminID:       adminID,
		Name:          req.Name,
		Email:         req.Email,
		Password:      string(hashed),
		PointsHistory: []models.PointsEntry{},
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	slog.Info("Customer registered", "customerId", customer.ID.Hex(), "adminId", adminID.Hex())
	customer.Password = ""
	return customer, nil
}

// LoginCustomer verifies credentials and issues a customer token
func (s *AuthServiceImpl) LoginCustomer(ctx context.Context, req *models.LoginRequest) (string, error) {
	customer, err := s.customerRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Generate(customer.ID.Hex(), models.RoleCustomer, customer.Email)
}
