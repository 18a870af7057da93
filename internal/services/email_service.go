package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/asyncscrum/scrum-platform/internal/config"
	"github.com/asyncscrum/scrum-platform/internal/models"
)

type EmailService struct {
	config *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{config: cfg}
}

// EmailData contains common email template data
type EmailData struct {
	AppName     string
	AppURL      string
	UserName    string
	Subject     string
	Content     template.HTML
	ActionURL   string
	ActionLabel string
}

// BaseEmailTemplate is the base HTML email template
const BaseEmailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #4f46e5; color: white; padding: 30px; text-align: center; border-radius: 8px 8px 0 0; }
        .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 8px 8px; }
        .button { display: inline-block; background: #4f46e5; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
        .footer { text-align: center; color: #888; font-size: 12px; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.AppName}}</h1>
        </div>
        <div class="content">
            <p>Hi {{.UserName}},</p>
            {{.Content}}
            {{if .ActionURL}}
            <p style="text-align: center;">
                <a href="{{.ActionURL}}" class="button">{{.ActionLabel}}</a>
            </p>
            {{end}}
        </div>
        <div class="footer">
            <p>&copy; {{.AppName}}. All rights reserved.</p>
            <p>This is an automated message. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
`

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to, subject, body string) error {
	if s.config.SMTPHost == "" {
		// Log email instead of sending in development
		zap.L().Info("email (not sent, no SMTP host)",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	from := s.config.FromEmail
	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPassword, s.config.SMTPHost)

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		from, to, subject)

	msg := []byte(headers + body)

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, from, []string{to}, msg)
}

// renderEmail renders an email using the base template
func (s *EmailService) renderEmail(data EmailData) (string, error) {
	data.AppName = s.config.AppName
	data.AppURL = s.config.AppURL

	tmpl, err := template.New("email").Parse(BaseEmailTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// SendInviteEmail notifies a user that they were added to a team. Freshly
// invited users have no password yet; the link takes them to account setup.
func (s *EmailService) SendInviteEmail(user *models.User, team *models.Team, isNewUser bool) {
	subject := fmt.Sprintf("You've been added to %s", team.Name)
	content := fmt.Sprintf("<p>You have been added to the team <strong>%s</strong> on %s.</p>",
		template.HTMLEscapeString(team.Name), s.config.AppName)
	actionURL := s.config.AppURL
	actionLabel := "Open Dashboard"
	if isNewUser {
		content += "<p>An account has been created for you. Set a password to get started.</p>"
		actionURL = s.config.AppURL + "/setup"
		actionLabel = "Set Up Account"
	}

	body, err := s.renderEmail(EmailData{
		UserName:    user.Name,
		Subject:     subject,
		Content:     template.HTML(content),
		ActionURL:   actionURL,
		ActionLabel: actionLabel,
	})
	if err != nil {
		zap.L().Error("failed to render invite email", zap.Error(err))
		return
	}

	if err := s.sendEmail(user.Email, subject, body); err != nil {
		zap.L().Error("failed to send invite email", zap.String("to", user.Email), zap.Error(err))
	}
}

// SendFeedbackEmail notifies a responder that feedback was left on their response.
func (s *EmailService) SendFeedbackEmail(responder *models.User, author *models.User, promptTitle string) {
	subject := "New feedback on your response"
	content := fmt.Sprintf("<p><strong>%s</strong> left feedback on your response to <strong>%s</strong>.</p>",
		template.HTMLEscapeString(author.Name), template.HTMLEscapeString(promptTitle))

	body, err := s.renderEmail(EmailData{
		UserName:    responder.Name,
		Subject:     subject,
		Content:     template.HTML(content),
		ActionURL:   s.config.AppURL,
		ActionLabel: "View Feedback",
	})
	if err != nil {
		zap.L().Error("failed to render feedback email", zap.Error(err))
		return
	}

	if err := s.sendEmail(responder.Email, subject, body); err != nil {
		zap.L().Error("failed to send feedback email", zap.String("to", responder.Email), zap.Error(err))
	}
}
