package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrscreening/resume-screener/internal/models"
)

type SubmissionRepository interface {
	Create(submission *models.Submission) error
	FindByID(id uuid.UUID) (*models.Submission, error)
	FindAll() ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// Create implements SubmissionRepository.
func (r *submissionRepository) Create(submission *models.Submission) error {
	if err := r.db.Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

// FindByID implements SubmissionRepository.
func (r *submissionRepository) FindByID(id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.Where("id = ?", id).First(&submission).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("submission not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	return &submission, nil
}

// FindAll implements SubmissionRepository.
func (r *submissionRepository) FindAll() ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.Order("created_at ASC").Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return submissions, nil
}
