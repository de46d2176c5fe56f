package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"hrscreening/resume-screener/internal/models"
)

// NotifierService sends the applicant a decision email. Missing SMTP
// configuration is a valid state: callers check IsConfigured and degrade to
// a warning instead of failing the submission.
type NotifierService interface {
	IsConfigured() bool
	SendDecision(name, email string, score int, decision models.Decision) error
}

type notifierService struct {
	host     string
	port     string
	email    string
	password string
}

func NewNotifierService(host, port, email, password string) NotifierService {
	return &notifierService{
		host:     host,
		port:     port,
		email:    email,
		password: password,
	}
}

type decisionEmailData struct {
	Name     string
	Score    int
	Accepted bool
}

const decisionEmailTemplate = `<!DOCTYPE html>
<html>
<body>
    <p>Hi {{.Name}},</p>
    <p>Your application score: <b>{{.Score}}</b>.
    {{if .Accepted}}Proceed to next step: we'll contact you shortly.{{else}}Thanks for applying. Unfortunately you were not selected for the next round.{{end}}</p>
</body>
</html>`

// IsConfigured implements NotifierService.
func (n *notifierService) IsConfigured() bool {
	return n.host != "" && n.email != "" && n.password != ""
}

// SendDecision implements NotifierService.
func (n *notifierService) SendDecision(name, email string, score int, decision models.Decision) error {
	if !n.IsConfigured() {
		return fmt.Errorf("email not configured - skipped")
	}

	tmpl, err := template.New("decision").Parse(decisionEmailTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	accepted := decision == models.DecisionAccepted

	var body bytes.Buffer
	if err := tmpl.Execute(&body, decisionEmailData{
		Name:     name,
		Score:    score,
		Accepted: accepted,
	}); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := "Application Status"
	if accepted {
		subject = "Application Accepted"
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		n.email,
		email,
		subject,
		body.String(),
	))

	auth := smtp.PlainAuth("", n.email, n.password, n.host)
	addr := fmt.Sprintf("%s:%s", n.host, n.port)

	if err := smtp.SendMail(addr, auth, n.email, []string{email}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
