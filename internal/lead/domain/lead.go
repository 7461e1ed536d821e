package domain

// Lead is owned by the CRM side of the system; this service only reads it,
// as a classification signal and as display context for queued outreach.
type Lead struct {
	ID          string `json:"id" gorm:"primaryKey"`
	UserID      string `json:"userId" gorm:"index;not null"`
	Name        string `json:"name" gorm:"not null"`
	Company     string `json:"company,omitempty"`
	Title       string `json:"title,omitempty"`
	LinkedInURL string `json:"linkedinUrl,omitempty" gorm:"column:linkedin_url"`
	Email       string `json:"email,omitempty"`
}

func (Lead) TableName() string {
	return "leads"
}

// Summary is the slice of a lead shown next to a queue item.
type Summary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
}

func (l *Lead) Summary() Summary {
	return Summary{ID: l.ID, Name: l.Name, Company: l.Company}
}
