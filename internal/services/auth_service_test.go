package services_test

import (
	"context"
	"testing"

	"github.com/rewardsuite/rms-backend/internal/models"
	"github.com/rewardsuite/rms-backend/internal/services"
	"github.com/rewardsuite/rms-backend/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAuthFixture() (*fakeAdminRepo, *fakeCustomerRepo, services.AuthService, *token.Service) {
	adminRepo := newFakeAdminRepo()
	customerRepo := newFakeCustomerRepo()
	tokens := token.NewService("test-secret", 3600)
	return adminRepo, customerRepo, services.NewAuthService(adminRepo, customerRepo, tokens), tokens
}

func TestAdminRegisterAndLogin(t *testing.T) {
	_, _, svc, tokens := newAuthFixture()

	admin, err := svc.RegisterAdmin(context.Background(), &models.AdminRegisterRequest{
		BusinessName: "Corner Cafe",
		Email:        "owner@cafe.example",
		Password:     "s3cret-pass",
	})
	require.NoError(t, err)
	assert.False(t, admin.ID.IsZero())
	assert.Empty(t, admin.Password, "hash must not leak in the response")

	tokenString, err := svc.LoginAdmin(context.Background(), &models.LoginRequest{
		Email:    "owner@cafe.example",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	claims, err := tokens.Parse(tokenString)
	require.NoError(t, err)
	assert.Equal(t, admin.ID.Hex(), claims["sub"])
	assert.Equal(t, models.RoleAdmin, claims["role"])
}

func TestAdminLoginWrongPassword(t *testing.T) {
	_, _, svc, _ := newAuthFixture()

	_, err := svc.RegisterAdmin(context.Background(), &models.AdminRegisterRequest{
		BusinessName: "Corner Cafe",
		Email:        "owner@cafe.example",
		Password:     "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.LoginAdmin(context.Background(), &models.LoginRequest{
		Email:    "owner@cafe.example",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = svc.LoginAdmin(context.Background(), &models.LoginRequest{
		Email:    "nobody@cafe.example",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAdminRegisterDuplicateEmail(t *testing.T) {
	_, _, svc, _ := newAuthFixture()
	req := &models.AdminRegisterRequest{
		BusinessName: "Corner Cafe",
		Email:        "owner@cafe.example",
		Password:     "s3cret-pass",
	}

	_, err := svc.RegisterAdmin(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.RegisterAdmin(context.Background(), req)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestCustomerRegisterEnrollsWithBusiness(t *testing.T) {
	adminRepo, customerRepo, svc, tokens := newAuthFixture()

	admin := &models.AdminUser{BusinessName: "Corner Cafe", Email: "owner@cafe.example"}
	require.NoError(t, adminRepo.Create(context.Background(), admin))

	customer, err := svc.RegisterCustomer(context.Background(), &models.CustomerRegisterRequest{
		AdminID:  admin.ID.Hex(),
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "hunter2-long",
	})
	require.NoError(t, err)

	assert.Equal(t, admin.ID, customer.AdminID)
	assert.Equal(t, 0, customer.PointsBalance)
	assert.Empty(t, customer.PointsHistory)
	assert.Empty(t, customer.Password)

	stored, err := customerRepo.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Password, "stored password must be hashed, not dropped")
	assert.NotEqual(t, "hunter2-long", stored.Password)

	tokenString, err := svc.LoginCustomer(context.Background(), &models.LoginRequest{
		Email:    "ada@example.com",
		Password: "hunter2-long",
	})
	require.NoError(t, err)
	claims, err := tokens.Parse(tokenString)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, claims["role"])
}

func TestCustomerRegisterUnknownBusiness(t *testing.T) {
	_, _, svc, _ := newAuthFixture()

	_, err := svc.RegisterCustomer(context.Background(), &models.CustomerRegisterRequest{
		AdminID:  primitive.NewObjectID().Hex(),
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "hunter2-long",
	})
	assert.EqualError(t, err, "business not found")

	_, err = svc.RegisterCustomer(context.Background(), &models.CustomerRegisterRequest{
		AdminID:  "not-an-object-id",
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "hunter2-long",
	})
	assert.EqualError(t, err, "invalid adminId")
}
