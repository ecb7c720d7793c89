package domain

// Review Model. An identity may post more than one review for the same
// book; no (user, book) uniqueness is enforced.
type Review struct {
	ID      uint   `gorm:"primaryKey" json:"id"`    // Primary key
	UserID  uint   `gorm:"not null" json:"user_id"` // Foreign key to User
	BookID  uint   `gorm:"not null" json:"book_id"` // Foreign key to Book
	Rating  int    `gorm:"not null" json:"rating"`  // Rating from 1 to 5
	Comment string `json:"comment"`                 // Optional free-text comment
}

// Validate checks field presence and the rating bounds.
func (r *Review) Validate() Errors {
	errs := Errors{}
	if r.UserID == 0 {
		errs.Add("user_id", MsgBlank)
	}
	if r.BookID == 0 {
		errs.Add("book_id", MsgBlank)
	}
	if r.Rating == 0 {
		errs.Add("rating", MsgBlank)
	} else if r.Rating < 1 || r.Rating > 5 {
		errs.Add("rating", MsgRatingRange)
	}
	return errs
}
