package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"hrscreening/resume-screener/internal/models"
)

// SheetLoggerService appends one row per submission to a Google Sheet.
// Failures here must never fail the submission; callers surface them as
// response warnings.
type SheetLoggerService interface {
	LogSubmission(ctx context.Context, submission *models.Submission) error
}

var sheetHeaders = []interface{}{
	"Timestamp",
	"Full Name",
	"Email",
	"Phone",
	"Resume File",
	"Score",
	"Decision",
	"Reasons",
}

type sheetLoggerService struct {
	spreadsheetID   string
	credentialsFile string
	log             *zap.Logger

	// The Sheets client is a thin remote-API handle built on first use and
	// held for the process lifetime. Only a successful build is cached:
	// a transient failure is retried on the next submission.
	mu  sync.Mutex
	svc *sheets.Service
}

func NewSheetLoggerService(spreadsheetID, credentialsFile string, log *zap.Logger) SheetLoggerService {
	return &sheetLoggerService{
		spreadsheetID:   spreadsheetID,
		credentialsFile: credentialsFile,
		log:             log,
	}
}

// LogSubmission implements SheetLoggerService.
func (s *sheetLoggerService) LogSubmission(ctx context.Context, submission *models.Submission) error {
	if s.spreadsheetID == "" {
		return fmt.Errorf("sheets logging not configured (set SHEET_ID)")
	}

	svc, err := s.service(ctx)
	if err != nil {
		return fmt.Errorf("failed to build sheets client: %w", err)
	}

	row := []interface{}{
		submission.CreatedAt.Format("2006-01-02 15:04:05"),
		submission.Name,
		submission.Email,
		submission.Phone,
		submission.ResumeFile,
		submission.Score,
		string(submission.Decision),
		submission.Reasons,
	}

	_, err = svc.Spreadsheets.Values.Append(s.spreadsheetID, "Sheet1!A:H", &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}

	return nil
}

func (s *sheetLoggerService) service(ctx context.Context) (*sheets.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.svc != nil {
		return s.svc, nil
	}

	data, err := os.ReadFile(s.credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account key %s: %w", s.credentialsFile, err)
	}

	conf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(context.Background())))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if err := s.ensureHeaders(ctx, svc); err != nil {
		return nil, err
	}

	s.svc = svc
	s.log.Info("sheets client initialized", zap.String("spreadsheet_id", s.spreadsheetID))

	return s.svc, nil
}

// ensureHeaders writes the header row once if the first row is empty.
func (s *sheetLoggerService) ensureHeaders(ctx context.Context, svc *sheets.Service) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	resp, err := svc.Spreadsheets.Values.Get(s.spreadsheetID, "Sheet1!1:1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	_, err = svc.Spreadsheets.Values.Update(s.spreadsheetID, "Sheet1!A1:H1", &sheets.ValueRange{
		Values: [][]interface{}{sheetHeaders},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	return nil
}
