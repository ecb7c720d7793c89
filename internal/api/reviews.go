package api

import (
	"net/http" // HTTP status codes

	"library_system/internal/domain"     // Importing domain models
	"library_system/internal/middleware" // Resolved identity

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// ReviewCreateRequest carries the fields accepted at review creation.
// The reviewer is always the authenticated identity.
type ReviewCreateRequest struct {
	BookID  uint   `json:"book_id"` // Reviewed book
	Rating  int    `json:"rating"`  // Rating from 1 to 5
	Comment string `json:"comment"` // Optional comment
}

// ReviewUpdateRequest carries the updatable review fields.
type ReviewUpdateRequest struct {
	BookID  *uint   `json:"book_id"` // New book reference
	Rating  *int    `json:"rating"`  // New rating
	Comment *string `json:"comment"` // New comment
}

// bookExists checks the review's book reference.
func bookExists(dbc *gorm.DB, bookID uint) (bool, error) {
	var count int64
	err := dbc.Model(&domain.Book{}).Where("id = ?", bookID).Count(&count).Error
	return count > 0, err
}

// ListReviewsHandler returns all reviews.
func ListReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []domain.Review
		if err := db.WithContext(c.Request.Context()).Find(&reviews).Error; err != nil {
			renderStorageError(c, "Failed to fetch reviews", err)
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// GetReviewHandler returns a single review by id.
func GetReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var review domain.Review
		if err := db.WithContext(c.Request.Context()).First(&review, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "Review")
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

// CreateReviewHandler posts a review as the authenticated member. Nothing
// stops an identity from reviewing the same book twice.
func CreateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ReviewCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		dbc := db.WithContext(c.Request.Context())
		review := domain.Review{
			UserID:  user.ID,
			BookID:  req.BookID,
			Rating:  req.Rating,
			Comment: req.Comment,
		}
		errs := review.Validate()
		if review.BookID != 0 {
			exists, err := bookExists(dbc, review.BookID)
			if err != nil {
				renderStorageError(c, "Failed to create review", err)
				return
			}
			if !exists {
				errs.Add("book", domain.MsgMustExist)
			}
		}
		if errs.Any() {
			renderValidation(c, errs)
			return
		}
		if err := dbc.Create(&review).Error; err != nil {
			renderStorageError(c, "Failed to create review", err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// UpdateReviewHandler re-validates the merged result and saves it. Any
// authenticated identity may update any review.
func UpdateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbc := db.WithContext(c.Request.Context())
		var review domain.Review
		if err := dbc.First(&review, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "Review")
			return
		}
		var req ReviewUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.BookID != nil {
			review.BookID = *req.BookID
		}
		if req.Rating != nil {
			review.Rating = *req.Rating
		}
		if req.Comment != nil {
			review.Comment = *req.Comment
		}
		errs := review.Validate()
		if req.BookID != nil && review.BookID != 0 {
			exists, err := bookExists(dbc, review.BookID)
			if err != nil {
				renderStorageError(c, "Failed to update review", err)
				return
			}
			if !exists {
				errs.Add("book", domain.MsgMustExist)
			}
		}
		if errs.Any() {
			renderValidation(c, errs)
			return
		}
		if err := dbc.Save(&review).Error; err != nil {
			renderStorageError(c, "Failed to update review", err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

// DeleteReviewHandler removes a review (admin only).
func DeleteReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbc := db.WithContext(c.Request.Context())
		var review domain.Review
		if err := dbc.First(&review, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "Review")
			return
		}
		if err := dbc.Delete(&review).Error; err != nil {
			renderStorageError(c, "Failed to delete review", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
