package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"
)

// Notifier is the out-of-band channel that hands a passcode to the account
// holder. Implementations block until delivery is accepted or fails.
type Notifier interface {
	Send(ctx context.Context, address, code string) error
}

// DevNotifier logs the passcode instead of delivering it, for local runs.
type DevNotifier struct {
	logger *slog.Logger
}

func NewDevNotifier(logger *slog.Logger) *DevNotifier {
	return &DevNotifier{logger: logger}
}

func (n *DevNotifier) Send(ctx context.Context, address, code string) error {
	n.logger.InfoContext(ctx, "verification code issued",
		"email", address,
		"code", code,
	)
	return nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// CodeTTL is only used in the message body so the recipient knows how
	// long the code stays valid.
	CodeTTL time.Duration
}

// SMTPNotifier delivers the passcode by email over plain SMTP.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

func (n *SMTPNotifier) Send(ctx context.Context, address, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	minutes := int(n.cfg.CodeTTL.Minutes())
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", address)
	b.WriteString("Subject: Your Verification Code\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Your verification code is: %s. It will expire in %d minutes.\r\n", code, minutes)
	b.WriteString("If you didn't request this code, please ignore this email.\r\n")

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	if err := n.send(addr, auth, n.cfg.From, []string{address}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
