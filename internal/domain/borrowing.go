package domain

import "time"

// Borrowing Model. A loan is active while ReturnedAt is null; setting
// ReturnedAt closes it, and a closed loan accepts no further mutation.
// At most one active loan may exist per book at any time, enforced by a
// partial unique index on (book_id) where returned_at is null.
type Borrowing struct {
	ID         uint       `gorm:"primaryKey" json:"id"`          // Primary key
	UserID     uint       `gorm:"not null" json:"user_id"`       // Foreign key to User
	BookID     uint       `gorm:"not null" json:"book_id"`       // Foreign key to Book
	BorrowedAt time.Time  `gorm:"not null" json:"borrowed_at"`   // When the loan started
	DueDate    time.Time  `gorm:"not null" json:"due_date"`      // When the book is due back
	ReturnedAt *time.Time `json:"returned_at"`                   // Null while the loan is active
}

// Active reports whether the loan is still open.
func (b *Borrowing) Active() bool {
	return b.ReturnedAt == nil
}

// Validate checks field presence. Referential and availability checks run
// against storage in the creation transaction.
func (b *Borrowing) Validate() Errors {
	errs := Errors{}
	if b.UserID == 0 {
		errs.Add("user_id", MsgBlank)
	}
	if b.BookID == 0 {
		errs.Add("book_id", MsgBlank)
	}
	if b.BorrowedAt.IsZero() {
		errs.Add("borrowed_at", MsgBlank)
	}
	if b.DueDate.IsZero() {
		errs.Add("due_date", MsgBlank)
	}
	return errs
}
