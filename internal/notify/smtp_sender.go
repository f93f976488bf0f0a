package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// Configured сообщает, заданы ли учетные данные SMTP
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPSender struct {
	cfg      SMTPConfig
	renderer *Renderer
	sendMail sendMailFunc
}

func NewSMTPSender(cfg SMTPConfig, renderer *Renderer) *SMTPSender {
	return &SMTPSender{cfg: cfg, renderer: renderer, sendMail: smtp.SendMail}
}

func (s *SMTPSender) Deliver(ctx context.Context, msg Message) error {
	body, err := s.renderer.Render(msg.Template, msg.Context)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	from := s.cfg.From
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
	}

	var raw strings.Builder
	raw.WriteString("From: " + from + "\r\n")
	raw.WriteString("To: " + strings.Join(msg.Recipients, ", ") + "\r\n")
	raw.WriteString("Subject: " + msg.Subject + "\r\n")
	raw.WriteString("MIME-Version: 1.0\r\n")
	raw.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	raw.WriteString("\r\n")
	raw.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)

	if err := s.sendMail(addr, auth, s.cfg.From, msg.Recipients, []byte(raw.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogSender пишет письмо в лог, когда SMTP не настроен
type LogSender struct {
	renderer *Renderer
}

func NewLogSender(renderer *Renderer) *LogSender {
	return &LogSender{renderer: renderer}
}

func (s *LogSender) Deliver(ctx context.Context, msg Message) error {
	if _, err := s.renderer.Render(msg.Template, msg.Context); err != nil {
		return err
	}

	log.Info().
		Str("template", msg.Template).
		Str("subject", msg.Subject).
		Strs("recipients", msg.Recipients).
		Interface("context", msg.Context).
		Msg("email not configured, notification logged")
	return nil
}
