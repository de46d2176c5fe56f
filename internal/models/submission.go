package models

import (
	"time"

	"github.com/google/uuid"
)

// Decision is the binary screening outcome derived from a score and the
// configured threshold.
type Decision string

const (
	DecisionAccepted Decision = "Accepted"
	DecisionRejected Decision = "Rejected"
)

type Submission struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	Email      string    `gorm:"type:text;not null" json:"email"`
	Phone      string    `gorm:"type:text;not null" json:"phone"`
	ResumeFile string    `gorm:"type:text" json:"resume_file"`
	Score      int       `gorm:"not null" json:"score"`
	Decision   Decision  `gorm:"type:text;not null" json:"decision"`
	Reasons    string    `gorm:"type:text" json:"reasons"`
	CreatedAt  time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (Submission) TableName() string {
	return "submissions"
}
