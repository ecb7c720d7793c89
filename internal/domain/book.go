package domain

import "time"

// Book Model
type Book struct {
	ID            uint       `gorm:"primaryKey" json:"id"`        // Primary key
	Title         string     `gorm:"not null" json:"title"`       // Book title
	Author        string     `gorm:"not null" json:"author"`      // Book author
	ISBN          string     `gorm:"unique;not null" json:"isbn"` // Globally unique ISBN
	Description   string     `gorm:"not null" json:"description"` // Book description
	PublishedDate time.Time  `gorm:"not null" json:"published_date"`
	Categories    []Category `gorm:"many2many:categorizations" json:"categories"` // Assigned categories
}

// Validate checks field presence. ISBN uniqueness is checked against
// storage by the caller.
func (b *Book) Validate() Errors {
	errs := Errors{}
	if b.Title == "" {
		errs.Add("title", MsgBlank)
	}
	if b.Author == "" {
		errs.Add("author", MsgBlank)
	}
	if b.ISBN == "" {
		errs.Add("isbn", MsgBlank)
	}
	if b.Description == "" {
		errs.Add("description", MsgBlank)
	}
	if b.PublishedDate.IsZero() {
		errs.Add("published_date", MsgBlank)
	}
	return errs
}
