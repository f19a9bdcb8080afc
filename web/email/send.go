package email

import (
	"fmt"
	"net/smtp"
	"os"
)

// SMTPSender delivers plain text mail through an authenticated SMTP relay.
type SMTPSender struct {
	Server   string
	Port     string
	User     string
	Pass     string
	FromAddr string
	FromName string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// FromEnv reads SMTP_SERVER, SMTP_PORT, SMTP_USER, SMTP_PASS, FROM_ADDR and FROM_NAME.
func FromEnv() *SMTPSender {
	return &SMTPSender{
		Server:   os.Getenv("SMTP_SERVER"),
		Port:     os.Getenv("SMTP_PORT"),
		User:     os.Getenv("SMTP_USER"),
		Pass:     os.Getenv("SMTP_PASS"),
		FromAddr: os.Getenv("FROM_ADDR"),
		FromName: os.Getenv("FROM_NAME"),
		send:     smtp.SendMail,
	}
}

// Configured reports whether every SMTP setting is present.
func (s *SMTPSender) Configured() bool {
	return s.Server != "" && s.Port != "" && s.User != "" && s.Pass != "" && s.FromAddr != "" && s.FromName != ""
}

func (s *SMTPSender) Send(to, subject, body string) error {
	if !s.Configured() {
		return fmt.Errorf(
			"missing required SMTP settings: SMTP_SERVER=%q, SMTP_PORT=%q, SMTP_USER=%q, FROM_ADDR=%q, FROM_NAME=%q",
			s.Server, s.Port, s.User, s.FromAddr, s.FromName)
	}
	msg := []byte(fmt.Sprintf("From: %s <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n\r\n"+
		"%s",
		s.FromName, s.FromAddr, to, subject, body))

	auth := smtp.PlainAuth("", s.User, s.Pass, s.Server)

	send := s.send
	if send == nil {
		send = smtp.SendMail
	}
	if err := send(s.Server+":"+s.Port, auth, s.FromAddr, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
