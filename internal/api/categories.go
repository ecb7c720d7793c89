package api

import (
	"net/http" // HTTP status codes

	"library_system/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// CategoryRequest carries the category fields for create and update. The
// pointer distinguishes "absent" from "blank" on PATCH.
type CategoryRequest struct {
	Name *string `json:"name"` // Category name
}

// ListCategoriesHandler returns all categories (admin only).
func ListCategoriesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []domain.Category
		if err := db.WithContext(c.Request.Context()).Find(&categories).Error; err != nil {
			renderStorageError(c, "Failed to fetch categories", err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GetCategoryHandler returns a single category by id (admin only).
func GetCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category domain.Category
		if err := db.WithContext(c.Request.Context()).First(&category, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "Category")
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// CreateCategoryHandler creates a category (admin only).
func CreateCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		category := domain.Category{}
		if req.Name != nil {
			category.Name = *req.Name
		}
		if errs := category.Validate(); errs.Any() {
			renderValidation(c, errs)
			return
		}
		if err := db.WithContext(c.Request.Context()).Create(&category).Error; err != nil {
			renderStorageError(c, "Failed to create category", err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// UpdateCategoryHandler updates a category's name (admin only).
func UpdateCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbc := db.WithContext(c.Request.Context())
		var category domain.Category
		if err := dbc.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "Category")
			return
		}
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Name != nil {
			category.Name = *req.Name
		}
		if errs := category.Validate(); errs.Any() {
			renderValidation(c, errs)
			return
		}
		if err := dbc.Save(&category).Error; err != nil {
			renderStorageError(c, "Failed to update category", err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DeleteCategoryHandler removes a category and its categorizations in one
// transaction (admin only).
func DeleteCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbc := db.WithContext(c.Request.Context())
		var category domain.Category
		if err := dbc.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "Category")
			return
		}
		err := dbc.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("category_id = ?", category.ID).Delete(&domain.Categorization{}).Error; err != nil {
				return err // Rollback
			}
			return tx.Delete(&category).Error
		})
		if err != nil {
			renderStorageError(c, "Failed to delete category", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
