package models

import "time"

// InformationKind names one of the editable site information pages
type InformationKind string

const (
	InformationAbout   InformationKind = "about"
	InformationTerms   InformationKind = "terms"
	InformationPrivacy InformationKind = "privacy_policies"
)

// InformationKinds lists every known kind in display order
var InformationKinds = []InformationKind{InformationAbout, InformationTerms, InformationPrivacy}

// ParseInformationKind returns the kind for a URL segment
func ParseInformationKind(value string) (InformationKind, bool) {
	for _, k := range InformationKinds {
		if string(k) == value {
			return k, true
		}
	}
	return "", false
}

// InformationPage is the stored body of a site information page.
// Content is editor HTML and is sanitized when rendered.
type InformationPage struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Kind      InformationKind `gorm:"type:varchar(32);uniqueIndex;not null" json:"kind"`
	Title     string          `gorm:"type:varchar(255);not null" json:"title"`
	Content   string          `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (InformationPage) TableName() string {
	return "information_pages"
}
