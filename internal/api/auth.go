package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"library_system/internal/domain" // Importing domain models
	"library_system/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest carries the fields accepted at registration.
type RegisterRequest struct {
	Username string `json:"username"` // Desired username
	Email    string `json:"email"`    // Email address, used for login
	Password string `json:"password"` // Plain password, hashed before storage
}

// LoginRequest carries the login credentials.
type LoginRequest struct {
	Email    string `json:"email"`    // Registered email address
	Password string `json:"password"` // Plain password
}

// UserResponse is the public view of a user: never the password hash.
type UserResponse struct {
	ID       uint   `json:"id"`       // User ID
	Username string `json:"username"` // Username
	Email    string `json:"email"`    // Email address
}

// minPasswordLength matches the registration validation.
const minPasswordLength = 6

// duplicateUserErrors attributes a unique-constraint conflict to the
// colliding column(s) by re-running the lookups. excludeID skips the
// caller's own row on updates. Falls back to username when neither
// lookup sees a conflicting row anymore.
func duplicateUserErrors(dbc *gorm.DB, username, email string, excludeID uint) domain.Errors {
	errs := domain.Errors{}
	if username != "" {
		var count int64
		dbc.Model(&domain.User{}).Where("username = ? AND id <> ?", username, excludeID).Count(&count)
		if count > 0 {
			errs.Add("username", domain.MsgTaken)
		}
	}
	if email != "" {
		var count int64
		dbc.Model(&domain.User{}).Where("email = ? AND id <> ?", email, excludeID).Count(&count)
		if count > 0 {
			errs.Add("email", domain.MsgTaken)
		}
	}
	if !errs.Any() {
		errs.Add("username", domain.MsgTaken)
	}
	return errs
}

// RegisterHandler creates a new member account.
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		dbc := db.WithContext(c.Request.Context())
		errs := domain.Errors{}
		if req.Username == "" {
			errs.Add("username", domain.MsgBlank)
		}
		if req.Email == "" {
			errs.Add("email", domain.MsgBlank)
		}
		if req.Password == "" {
			errs.Add("password", domain.MsgBlank)
		} else if len(req.Password) < minPasswordLength {
			errs.Add("password", domain.MsgPasswordSize)
		}
		// Friendly uniqueness checks; the unique columns stay authoritative.
		if req.Username != "" {
			var count int64
			if err := dbc.Model(&domain.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
				renderStorageError(c, "Failed to create user", err)
				return
			}
			if count > 0 {
				errs.Add("username", domain.MsgTaken)
			}
		}
		if req.Email != "" {
			var count int64
			if err := dbc.Model(&domain.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
				renderStorageError(c, "Failed to create user", err)
				return
			}
			if count > 0 {
				errs.Add("email", domain.MsgTaken)
			}
		}
		if errs.Any() {
			renderValidation(c, errs)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			renderStorageError(c, "Failed to hash password", err)
			return
		}
		user := domain.User{
			Username: req.Username,
			Email:    req.Email,
			Password: string(hash),
			Role:     domain.RoleMember, // New accounts always start as members
		}
		if err := dbc.Create(&user).Error; err != nil {
			// Lost a race against another registration with the same
			// username or email.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				renderValidation(c, duplicateUserErrors(dbc, req.Username, req.Email, 0))
				return
			}
			renderStorageError(c, "Failed to create user", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "User created successfully",
			"user":    UserResponse{ID: user.ID, Username: user.Username, Email: user.Email},
		})
	}
}

// LoginHandler authenticates by email and password and returns a token.
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User
		if err := db.WithContext(c.Request.Context()).
			Where("email = ?", req.Email).First(&user).Error; err != nil {
			// Unknown email and wrong password are indistinguishable.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			renderStorageError(c, "Failed to generate token", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  UserResponse{ID: user.ID, Username: user.Username, Email: user.Email},
		})
	}
}
