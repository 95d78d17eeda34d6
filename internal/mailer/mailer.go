package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/growwithgreen/growwithgreen-backend/pkg/config"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/logger"
)

// Mailer sends the order lifecycle emails.
type Mailer interface {
	OrderConfirmation(ctx context.Context, user *models.User, order *models.Order) error
	OrderShipped(ctx context.Context, user *models.User, order *models.Order) error
	OrderDelivered(ctx context.Context, user *models.User, order *models.Order) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpMailer struct {
	cfg  config.SMTPConfig
	logg *logger.Logger
	send sendFunc
}

// New builds an SMTP-backed mailer. When no SMTP host is configured the
// mailer logs and drops every message instead of failing order flows.
func New(cfg config.SMTPConfig, logg *logger.Logger) (Mailer, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &smtpMailer{cfg: cfg, logg: logg, send: smtp.SendMail}, nil
}

func (m *smtpMailer) OrderConfirmation(ctx context.Context, user *models.User, order *models.Order) error {
	subject := fmt.Sprintf("Order %s confirmed", order.Number)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour order %s has been confirmed and is being prepared.\r\n"+
			"Total: %s FCFA\r\nDelivery address: %s\r\n\r\nThank you for choosing Grow With Green.\r\n",
		displayName(user), order.Number, order.TotalAmount.StringFixed(0), order.DeliveryAddress)
	return m.deliver(ctx, user, subject, body)
}

func (m *smtpMailer) OrderShipped(ctx context.Context, user *models.User, order *models.Order) error {
	subject := fmt.Sprintf("Order %s is on its way", order.Number)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour order %s has left our farm and is out for delivery to:\r\n%s\r\n\r\n"+
			"We will reach you at %s on arrival.\r\n",
		displayName(user), order.Number, order.DeliveryAddress, order.DeliveryPhone)
	return m.deliver(ctx, user, subject, body)
}

func (m *smtpMailer) OrderDelivered(ctx context.Context, user *models.User, order *models.Order) error {
	subject := fmt.Sprintf("Order %s delivered", order.Number)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour order %s has been delivered. We hope the vegetables arrived fresh.\r\n\r\n"+
			"A review on the products you received helps other customers.\r\n",
		displayName(user), order.Number)
	return m.deliver(ctx, user, subject, body)
}

func (m *smtpMailer) deliver(ctx context.Context, user *models.User, subject, body string) error {
	if user == nil || strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("recipient email missing")
	}
	if !m.cfg.Enabled() {
		m.logg.Info(m.logg.WithField(ctx, "subject", subject), "smtp disabled, dropping email")
		return nil
	}

	msg := buildMessage(m.cfg.DefaultFrom, user.Email, subject, body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := m.send(m.cfg.Addr(), auth, m.cfg.DefaultFrom, []string{user.Email}, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func displayName(user *models.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return user.Email
	}
	return name
}
