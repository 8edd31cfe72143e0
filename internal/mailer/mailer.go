// Package mailer отправляет приветственное письмо новому подписчику.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/config"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/smtp"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

// Mailer собирает и отправляет письма через SMTP транспорт.
// Без транспорта (не задан SMTP хост) отправка пропускается.
type Mailer struct {
	transport smtp.TransportInterface
	cfg       config.Sender
	log       *slog.Logger
}

// New создаёт Mailer по настройкам отправителя.
func New(cfg config.Sender, log *slog.Logger) *Mailer {
	var transport smtp.TransportInterface
	if cfg.SMTPHost != "" {
		transport = smtp.NewTransport(cfg)
	}
	return NewWithTransport(cfg, log, transport)
}

// NewWithTransport создаёт Mailer с заданным транспортом; nil отключает отправку.
func NewWithTransport(cfg config.Sender, log *slog.Logger, transport smtp.TransportInterface) *Mailer {
	return &Mailer{transport: transport, cfg: cfg, log: log}
}

// Enabled сообщает, настроена ли отправка.
func (m *Mailer) Enabled() bool {
	return m.transport != nil
}

// SendWelcome отправляет приветствие с названием уровня и ссылкой на лид-магнит.
func (m *Mailer) SendWelcome(_ context.Context, sub models.Subscriber, leadMagnetLink string) error {
	const op = "mailer.SendWelcome"
	if !m.Enabled() {
		m.log.Debug("smtp not configured, welcome email skipped", slog.String("to", sub.Email))
		return nil
	}

	tierName := string(sub.Tier)
	if info, ok := sub.Tier.Info(); ok {
		tierName = info.Name
	}
	name := sub.FirstName
	if name == "" {
		name = "there"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", name)
	fmt.Fprintf(&body, "Welcome to %s! Your monthly action plan is ready.\n\n", tierName)
	if leadMagnetLink != "" && leadMagnetLink != "#" {
		fmt.Fprintf(&body, "Grab your free guide here: %s\n\n", leadMagnetLink)
	}
	fmt.Fprintf(&body, "Talk soon,\n%s\n", m.cfg.FromName)

	subject := "Welcome to " + tierName
	if err := m.send(sub.Email, subject, body.String()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.log.Info("welcome email sent", slog.String("to", sub.Email))
	return nil
}

func (m *Mailer) send(to, subject, bodyText string) error {
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", m.cfg.FromName, m.cfg.FromEmail),
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		strings.ReplaceAll(bodyText, "\n", "\r\n"),
	}, "\r\n")

	client, err := m.transport.Connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(m.cfg.FromEmail); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return client.Quit()
}
