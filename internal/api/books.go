package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"time"     // Published date parsing

	"library_system/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// BookRequest carries the book fields for create and update. Pointers
// distinguish "absent" from "blank" on PATCH; a nil CategoryIDs leaves
// the category set untouched, a non-nil one replaces it.
type BookRequest struct {
	Title         *string `json:"title"`          // Book title
	Author        *string `json:"author"`         // Book author
	ISBN          *string `json:"isbn"`           // Globally unique ISBN
	Description   *string `json:"description"`    // Book description
	PublishedDate *string `json:"published_date"` // Date as 2006-01-02 or RFC 3339
	CategoryIDs   []uint  `json:"category_ids"`   // Categories to assign
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// applyBookFields merges the request onto a book and validates the
// result, including the published date format.
func applyBookFields(book *domain.Book, req *BookRequest) domain.Errors {
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	badDate := false
	if req.PublishedDate != nil {
		if *req.PublishedDate == "" {
			book.PublishedDate = time.Time{}
		} else if parsed, err := parseDate(*req.PublishedDate); err != nil {
			badDate = true
		} else {
			book.PublishedDate = parsed
		}
	}
	errs := book.Validate()
	if badDate {
		errs["published_date"] = []string{"is invalid"}
	}
	return errs
}

// isbnTaken checks for another book claiming the same ISBN.
func isbnTaken(dbc *gorm.DB, isbn string, excludeID uint) (bool, error) {
	var count int64
	err := dbc.Model(&domain.Book{}).Where("isbn = ? AND id <> ?", isbn, excludeID).Count(&count).Error
	return count > 0, err
}

// existingCategories resolves the supplied ids against storage. Unknown
// ids are silently dropped; only matching categories get assigned.
func existingCategories(tx *gorm.DB, ids []uint) ([]domain.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []domain.Category
	err := tx.Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}

// ListBooksHandler returns all books with their categories.
func ListBooksHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var books []domain.Book
		if err := db.WithContext(c.Request.Context()).Preload("Categories").Find(&books).Error; err != nil {
			renderStorageError(c, "Failed to fetch books", err)
			return
		}
		c.JSON(http.StatusOK, books)
	}
}

// GetBookHandler returns a single book with its categories.
func GetBookHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var book domain.Book
		if err := db.WithContext(c.Request.Context()).
			Preload("Categories").First(&book, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "Book")
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

// CreateBookHandler creates a book and assigns its categories atomically
// (admin only). Validation failure performs no association.
func CreateBookHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		dbc := db.WithContext(c.Request.Context())
		var book domain.Book
		errs := applyBookFields(&book, &req)
		if book.ISBN != "" {
			taken, err := isbnTaken(dbc, book.ISBN, 0)
			if err != nil {
				renderStorageError(c, "Failed to create book", err)
				return
			}
			if taken {
				errs.Add("isbn", domain.MsgTaken)
			}
		}
		if errs.Any() {
			renderValidation(c, errs)
			return
		}
		err := dbc.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Categories").Create(&book).Error; err != nil {
				return err // Rollback
			}
			categories, err := existingCategories(tx, req.CategoryIDs)
			if err != nil {
				return err
			}
			if len(categories) > 0 {
				return tx.Model(&book).Association("Categories").Replace(&categories)
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a racing create with the same ISBN.
				errs.Add("isbn", domain.MsgTaken)
				renderValidation(c, errs)
				return
			}
			renderStorageError(c, "Failed to create book", err)
			return
		}
		if err := dbc.Preload("Categories").First(&book, book.ID).Error; err != nil {
			renderStorageError(c, "Failed to fetch book", err)
			return
		}
		c.JSON(http.StatusCreated, book)
	}
}

// UpdateBookHandler updates book fields and replaces the category set in
// the same transaction (admin only): a concurrent reader sees either both
// changes or neither.
func UpdateBookHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbc := db.WithContext(c.Request.Context())
		var book domain.Book
		if err := dbc.First(&book, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "Book")
			return
		}
		var req BookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		errs := applyBookFields(&book, &req)
		if book.ISBN != "" {
			taken, err := isbnTaken(dbc, book.ISBN, book.ID)
			if err != nil {
				renderStorageError(c, "Failed to update book", err)
				return
			}
			if taken {
				errs.Add("isbn", domain.MsgTaken)
			}
		}
		if errs.Any() {
			renderValidation(c, errs)
			return
		}
		err := dbc.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Categories").Save(&book).Error; err != nil {
				return err // Rollback
			}
			if req.CategoryIDs == nil {
				return nil // Category set untouched
			}
			categories, err := existingCategories(tx, req.CategoryIDs)
			if err != nil {
				return err
			}
			return tx.Model(&book).Association("Categories").Replace(&categories)
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				errs.Add("isbn", domain.MsgTaken)
				renderValidation(c, errs)
				return
			}
			renderStorageError(c, "Failed to update book", err)
			return
		}
		if err := dbc.Preload("Categories").First(&book, book.ID).Error; err != nil {
			renderStorageError(c, "Failed to fetch book", err)
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

// DeleteBookHandler removes a book and its categorizations in one
// transaction (admin only). Repeat deletes keep returning 404.
func DeleteBookHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbc := db.WithContext(c.Request.Context())
		var book domain.Book
		if err := dbc.First(&book, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "Book")
			return
		}
		err := dbc.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("book_id = ?", book.ID).Delete(&domain.Categorization{}).Error; err != nil {
				return err // Rollback
			}
			return tx.Delete(&book).Error
		})
		if err != nil {
			renderStorageError(c, "Failed to delete book", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
