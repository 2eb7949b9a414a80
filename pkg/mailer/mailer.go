package mailer

import (
	"net/smtp"
	"net/url"

	"github.com/GrabRush/grabrush-app/pkg/config"
)

// Mailer delivers account-verification mail
type Mailer interface {
	SendVerification(to, token string) error
}

var instance Mailer

// Init configures the global SMTP mailer
func Init(cfg config.MailConfig, baseURL string) {
	instance = &smtpMailer{cfg: cfg, baseURL: baseURL}
}

// Get returns the configured mailer instance
func Get() Mailer {
	return instance
}

// Set replaces the active mailer
func Set(m Mailer) {
	instance = m
}

type smtpMailer struct {
	cfg     config.MailConfig
	baseURL string
}

// verificationLink builds the registration link embedded in the mail
func (m *smtpMailer) verificationLink(token, email string) string {
	return m.baseURL + "/register?token=" + token + "&email=" + url.QueryEscape(email)
}

func (m *smtpMailer) SendVerification(to, token string) error {
	addr := m.cfg.Host + ":" + m.cfg.Port
	link := m.verificationLink(token, to)

	msg := "From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: Verify your email for GrabRush\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		"Welcome to GrabRush!\r\n\r\n" +
		"Open the link below to verify your email and complete your registration:\r\n" +
		link + "\r\n"

	// No auth for local relays such as MailHog
	return smtp.SendMail(addr, nil, m.cfg.From, []string{to}, []byte(msg))
}
