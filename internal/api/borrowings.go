package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"time"     // Loan timestamps

	"library_system/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// errBookUnavailable aborts the creation transaction when the book
// already has an active loan.
var errBookUnavailable = errors.New("book is already borrowed")

// BorrowingCreateRequest carries the fields required to open a loan.
type BorrowingCreateRequest struct {
	UserID     uint       `json:"user_id"`     // Borrowing user
	BookID     uint       `json:"book_id"`     // Borrowed book
	BorrowedAt *time.Time `json:"borrowed_at"` // Loan start
	DueDate    *time.Time `json:"due_date"`    // Loan due date
}

// BorrowingUpdateRequest carries the admin-updatable loan fields. Setting
// returned_at closes the loan.
type BorrowingUpdateRequest struct {
	BorrowedAt *time.Time `json:"borrowed_at"` // New loan start
	DueDate    *time.Time `json:"due_date"`    // New due date
	ReturnedAt *time.Time `json:"returned_at"` // Return timestamp
}

// ListBorrowingsHandler returns all loan records (admin only).
func ListBorrowingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var borrowings []domain.Borrowing
		if err := db.WithContext(c.Request.Context()).Find(&borrowings).Error; err != nil {
			renderStorageError(c, "Failed to fetch borrowings", err)
			return
		}
		c.JSON(http.StatusOK, borrowings)
	}
}

// GetBorrowingHandler returns a single loan record (admin only).
func GetBorrowingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var borrowing domain.Borrowing
		if err := db.WithContext(c.Request.Context()).First(&borrowing, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "Borrowing record")
			return
		}
		c.JSON(http.StatusOK, borrowing)
	}
}

// CreateBorrowingHandler opens a loan (member only). The availability
// check and the insert share one transaction, and the partial unique
// index over active loans backs the check, so concurrent creations for
// the same book yield exactly one success. Creations for distinct books
// never contend on a shared lock.
func CreateBorrowingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BorrowingCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		dbc := db.WithContext(c.Request.Context())
		borrowing := domain.Borrowing{
			UserID: req.UserID,
			BookID: req.BookID,
		}
		if req.BorrowedAt != nil {
			borrowing.BorrowedAt = *req.BorrowedAt
		}
		if req.DueDate != nil {
			borrowing.DueDate = *req.DueDate
		}
		errs := borrowing.Validate()
		// Referenced rows must exist before any mutation is attempted. A
		// failed lookup is a storage error, not a missing reference.
		if borrowing.UserID != 0 {
			var count int64
			if err := dbc.Model(&domain.User{}).Where("id = ?", borrowing.UserID).Count(&count).Error; err != nil {
				renderStorageError(c, "Failed to create borrowing record", err)
				return
			}
			if count == 0 {
				errs.Add("user", domain.MsgMustExist)
			}
		}
		if borrowing.BookID != 0 {
			var count int64
			if err := dbc.Model(&domain.Book{}).Where("id = ?", borrowing.BookID).Count(&count).Error; err != nil {
				renderStorageError(c, "Failed to create borrowing record", err)
				return
			}
			if count == 0 {
				errs.Add("book", domain.MsgMustExist)
			}
		}
		if errs.Any() {
			renderValidation(c, errs)
			return
		}
		err := dbc.Transaction(func(tx *gorm.DB) error {
			// Friendly pre-check; the index below remains authoritative
			// if two creations race past it.
			var active int64
			if err := tx.Model(&domain.Borrowing{}).
				Where("book_id = ? AND returned_at IS NULL", borrowing.BookID).
				Count(&active).Error; err != nil {
				return err
			}
			if active > 0 {
				return errBookUnavailable
			}
			return tx.Create(&borrowing).Error
		})
		if err != nil {
			// A duplicate-key conflict is the racing twin of the
			// pre-check failure; both mean the book is on loan.
			if errors.Is(err, errBookUnavailable) || errors.Is(err, gorm.ErrDuplicatedKey) {
				errs.Add("book_id", domain.MsgBorrowed)
				renderValidation(c, errs)
				return
			}
			renderStorageError(c, "Failed to create borrowing record", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"borrowing_id": borrowing.ID,
			"user_id":      borrowing.UserID,
			"book_id":      borrowing.BookID,
			"due_date":     borrowing.DueDate.Format(time.RFC3339),
		}).Info("Borrowing created")
		c.JSON(http.StatusCreated, borrowing)
	}
}

// UpdateBorrowingHandler mutates an active loan (admin only). Setting
// returned_at transitions it to closed; a closed loan rejects any
// further update.
func UpdateBorrowingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbc := db.WithContext(c.Request.Context())
		var borrowing domain.Borrowing
		if err := dbc.First(&borrowing, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "Borrowing record")
			return
		}
		if !borrowing.Active() {
			errs := domain.Errors{}
			errs.Add("base", domain.MsgLoanClosed)
			renderValidation(c, errs)
			return
		}
		var req BorrowingUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.BorrowedAt != nil {
			borrowing.BorrowedAt = *req.BorrowedAt
		}
		if req.DueDate != nil {
			borrowing.DueDate = *req.DueDate
		}
		if req.ReturnedAt != nil {
			borrowing.ReturnedAt = req.ReturnedAt
		}
		if errs := borrowing.Validate(); errs.Any() {
			renderValidation(c, errs)
			return
		}
		if err := dbc.Save(&borrowing).Error; err != nil {
			renderStorageError(c, "Failed to update borrowing record", err)
			return
		}
		if req.ReturnedAt != nil {
			logrus.WithFields(logrus.Fields{
				"borrowing_id": borrowing.ID,
				"book_id":      borrowing.BookID,
				"returned_at":  borrowing.ReturnedAt.Format(time.RFC3339),
			}).Info("Borrowing closed")
		}
		c.JSON(http.StatusOK, borrowing)
	}
}

// DeleteBorrowingHandler hard-deletes a loan record (admin only). No
// invariant re-check is needed: removal only frees the book.
func DeleteBorrowingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbc := db.WithContext(c.Request.Context())
		var borrowing domain.Borrowing
		if err := dbc.First(&borrowing, "id = ?", c.Param("id")).Error; err != nil {
			renderNotFound(c, "Borrowing record")
			return
		}
		if err := dbc.Delete(&borrowing).Error; err != nil {
			renderStorageError(c, "Failed to delete borrowing record", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
