package services

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rpupo63/platefeed-backend/database"
	"github.com/rpupo63/platefeed-backend/errs"
	"github.com/rpupo63/platefeed-backend/models"
)

// reservedUsernames cannot be registered; "me" is routed to the caller's own profile.
var reservedUsernames = map[string]bool{"me": true}

// SignupPayload is a registration request after JSON decoding.
type SignupPayload struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// Auth registers users, verifies credentials and issues bearer tokens.
type Auth struct {
	userRepo *database.UserRepo
	secret   []byte
	tokenTTL time.Duration
}

func NewAuth(userRepo *database.UserRepo, secret []byte, tokenTTL time.Duration) Auth {
	return Auth{userRepo: userRepo, secret: secret, tokenTTL: tokenTTL}
}

// Register creates a new account with a bcrypt-hashed password.
func (a Auth) Register(p SignupPayload) (*models.User, error) {
	verrs := errs.NewValidationErrors()
	if p.Email == "" {
		verrs.Add("email", "email is required")
	}
	if p.Username == "" {
		verrs.Add("username", "username is required")
	}
	if reservedUsernames[strings.ToLower(p.Username)] {
		verrs.Add("username", "this username is reserved")
	}
	if p.FirstName == "" {
		verrs.Add("first_name", "first name is required")
	}
	if p.LastName == "" {
		verrs.Add("last_name", "last name is required")
	}
	if p.Password == "" {
		verrs.Add("password", "password is required")
	}
	if !verrs.Empty() {
		return nil, verrs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to hash password", err)
	}

	user := &models.User{
		Email:        p.Email,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := a.userRepo.Add(user); err != nil {
		return nil, errs.NewDatabaseError("create", "user", err)
	}
	return user, nil
}

// Login verifies the email/password pair and returns a signed token.
func (a Auth) Login(email, password string) (string, error) {
	user, err := a.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.NewUnauthorizedError("invalid credentials")
		}
		return "", errs.NewDatabaseError("find", "user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", errs.NewUnauthorizedError("invalid credentials")
	}
	return a.IssueToken(user.ID)
}

// SetPassword replaces the caller's password after verifying the current one.
func (a Auth) SetPassword(user models.User, currentPassword, newPassword string) error {
	if newPassword == "" {
		verrs := errs.NewValidationErrors()
		verrs.Add("new_password", "new password is required")
		return verrs
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return errs.NewUnauthorizedError("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errs.NewInternalErrorWithCause("failed to hash password", err)
	}
	if err := a.userRepo.UpdatePassword(user.ID, string(hash)); err != nil {
		return errs.NewDatabaseError("update", "user password", err)
	}
	return nil
}

// IssueToken signs a token whose subject is the user id.
func (a Auth) IssueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to sign token", err)
	}
	return token, nil
}

// ParseToken verifies the signature and expiry and returns the user id.
func (a Auth) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(*jwt.Token) (interface{}, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, errs.NewInvalidTokenError(err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, errs.NewInvalidTokenError(nil)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.NewInvalidTokenError(err)
	}
	return userID, nil
}
