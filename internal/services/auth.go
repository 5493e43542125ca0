package services

import (
	"time"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/models"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/apperr"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/jwt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues sessions. Workflow services never touch tokens;
// only the auth endpoints and middleware do.
type AuthService struct {
	userStore UserStore
	jwtUtil   *jwt.JWTUtil
}

func NewAuthService(userStore UserStore) *AuthService {
	return &AuthService{
		userStore: userStore,
		jwtUtil:   jwt.NewJWTUtil(),
	}
}

type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role" validate:"omitempty,oneof=customer driver"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  *models.AuthUser `json:"user"`
	Token string           `json:"token"`
}

func (s *AuthService) Signup(req *SignupRequest) (*models.AuthUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}

	now := time.Now()
	user := &models.User{
		Username:         req.Username,
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Password:         string(hash),
		Role:             role,
		KYCStatus:        models.KYCStatusPending,
		DriverVehicleIDs: []primitive.ObjectID{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.userStore.Create(user)
	if err != nil {
		return nil, err
	}

	return toAuthUser(created), nil
}

func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userStore.FindByEmail(req.Email)
	if err != nil {
		return nil, apperr.New(apperr.Authorization, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.New(apperr.Authorization, "invalid credentials")
	}

	if err := s.userStore.UpdateLastLogin(user.ID.Hex()); err != nil {
		return nil, err
	}

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "failed to generate token", err)
	}

	return &LoginResponse{User: toAuthUser(user), Token: token}, nil
}

func (s *AuthService) GetProfile(userID string) (*models.AuthUser, error) {
	user, err := s.userStore.FindByID(userID)
	if err != nil {
		return nil, err
	}
	return toAuthUser(user), nil
}

func toAuthUser(user *models.User) *models.AuthUser {
	return &models.AuthUser{
		ID:        user.ID.Hex(),
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		KYCLevel:  user.KYCLevel,
		KYCStatus: user.KYCStatus,
	}
}
