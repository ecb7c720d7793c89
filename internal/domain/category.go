package domain

// Category Model
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"` // Primary key
	Name string `gorm:"not null" json:"name"` // Category name
}

// Validate checks field presence.
func (c *Category) Validate() Errors {
	errs := Errors{}
	if c.Name == "" {
		errs.Add("name", MsgBlank)
	}
	return errs
}
