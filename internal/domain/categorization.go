package domain

// Categorization is the Book/Category join row. Rows are removed in the
// same transaction that deletes either parent.
type Categorization struct {
	BookID     uint `gorm:"primaryKey" json:"book_id"`     // Foreign key to Book
	CategoryID uint `gorm:"primaryKey" json:"category_id"` // Foreign key to Category
}
