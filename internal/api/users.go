package api

import (
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes

	"library_system/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// UserUpdateRequest carries the admin-updatable user fields. Pointers
// distinguish "absent" from "blank" on PATCH.
type UserUpdateRequest struct {
	Username *string `json:"username"` // New username
	Email    *string `json:"email"`    // New email address
	Role     *string `json:"role"`     // New role: member or admin
}

// ListUsersHandler returns all users (admin only).
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []domain.User
		if err := db.WithContext(c.Request.Context()).Find(&users).Error; err != nil {
			renderStorageError(c, "Failed to fetch users", err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// GetUserHandler returns a single user by id (admin only).
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user domain.User
		if err := db.WithContext(c.Request.Context()).First(&user, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "User")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateUserHandler updates username, email, or role (admin only). The
// role change here is the only path by which a member becomes admin.
func UpdateUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbc := db.WithContext(c.Request.Context())
		var user domain.User
		if err := dbc.First(&user, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "User")
			return
		}
		var req UserUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Username != nil {
			user.Username = *req.Username
		}
		if req.Email != nil {
			user.Email = *req.Email
		}
		if req.Role != nil {
			user.Role = *req.Role
		}
		// Re-validate the merged result.
		errs := domain.Errors{}
		if user.Username == "" {
			errs.Add("username", domain.MsgBlank)
		}
		if user.Email == "" {
			errs.Add("email", domain.MsgBlank)
		}
		if !domain.ValidRole(user.Role) {
			errs.Add("role", domain.MsgInvalidRole)
		}
		var count int64
		if user.Username != "" {
			if err := dbc.Model(&domain.User{}).Where("username = ? AND id <> ?", user.Username, user.ID).Count(&count).Error; err != nil {
				renderStorageError(c, "Failed to update user", err)
				return
			}
			if count > 0 {
				errs.Add("username", domain.MsgTaken)
			}
		}
		if user.Email != "" {
			if err := dbc.Model(&domain.User{}).Where("email = ? AND id <> ?", user.Email, user.ID).Count(&count).Error; err != nil {
				renderStorageError(c, "Failed to update user", err)
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
		if err := dbc.Save(&user).Error; err != nil {
			// Lost a race against a concurrent write to the same
			// username or email.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				renderValidation(c, duplicateUserErrors(dbc, user.Username, user.Email, user.ID))
				return
			}
			renderStorageError(c, "Failed to update user", err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// DeleteUserHandler removes a user (admin only). Borrowings and reviews
// referencing the user are left in place.
func DeleteUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbc := db.WithContext(c.Request.Context())
		var user domain.User
		if err := dbc.First(&user, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "User")
			return
		}
		if err := dbc.Delete(&user).Error; err != nil {
			renderStorageError(c, "Failed to delete user", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
