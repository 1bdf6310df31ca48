package models

// Roles carried in the JWT "role" claim.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// AdminRegisterRequest is the body for POST /auth/admin/register.
type AdminRegisterRequest struct {
	BusinessName string `json:"businessName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
}

// CustomerRegisterRequest is the body for POST /auth/customer/register.
// AdminID enrolls the customer with a business at sign-up; it is the record
// the spin endpoint later uses to resolve the business context.
type CustomerRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	AdminID  string `json:"adminId" binding:"required"`
}

// LoginRequest is shared by the admin and customer login endpoints.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// SpinResult is the response body of POST /spin-wheel/spin.
type SpinResult struct {
	Message       string `json:"message"`
	WonPoints     int    `json:"wonPoints"`
	PointsBalance int    `json:"pointsBalance"`
}
