package email

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sender delivers a rendered notification. Satisfied by EmailService;
// the outbox dispatcher only needs this much.
type Sender interface {
	Send(kind, to string, data map[string]string) error
}

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	appURL       string
}

func NewEmailService(smtpHost, smtpPort, smtpUsername, smtpPassword, fromEmail, fromName, appURL string) *EmailService {
	return &EmailService{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUsername: smtpUsername,
		smtpPassword: smtpPassword,
		fromEmail:    fromEmail,
		fromName:     fromName,
		appURL:       appURL,
	}
}

// subjects per notification kind; the kind doubles as the template name.
var subjects = map[string]string{
	"hiring_approved":      "Your driver hiring post has been approved",
	"hiring_rejected":      "Your driver hiring post has been rejected",
	"application_won":      "Congratulations! You have been selected",
	"application_rejected": "Update on your driver application",
}

// Send renders the template for kind and delivers it over SMTP.
func (s *EmailService) Send(kind, to string, data map[string]string) error {
	subject, ok := subjects[kind]
	if !ok {
		return fmt.Errorf("unknown notification kind %q", kind)
	}

	tmpl, err := template.ParseFS(templateFS, fmt.Sprintf("templates/%s.html", kind))
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	templateData := map[string]string{"AppURL": s.appURL}
	for k, v := range data {
		templateData[k] = v
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, templateData); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	message := s.buildEmailMessage(to, subject, body.String())
	if err := s.sendEmail(to, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *EmailService) buildEmailMessage(to, subject, htmlBody string) []byte {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + htmlBody

	return []byte(message)
}

func (s *EmailService) sendEmail(to string, message []byte) error {
	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)

	tlsConfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         s.smtpHost,
	}

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)

	// Port 587 flow: plain dial, then STARTTLS
	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err = conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err = conn.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	if err = conn.Mail(s.fromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err = conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return conn.Quit()
}
