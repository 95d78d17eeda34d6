package mailer

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growwithgreen/growwithgreen-backend/pkg/config"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/logger"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestMailer(t *testing.T, cfg config.SMTPConfig) (*smtpMailer, *[]sentMail) {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "mailer-test"})
	m, err := New(cfg, logg)
	require.NoError(t, err)

	var sent []sentMail
	impl := m.(*smtpMailer)
	impl.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return impl, &sent
}

func testUser() *models.User {
	return &models.User{
		Email:     "awa@example.ci",
		FirstName: "Awa",
		LastName:  "Kone",
	}
}

func testOrder() *models.Order {
	return &models.Order{
		Number:          "GWG-1A2B3C4D",
		TotalAmount:     decimal.NewFromInt(12500),
		DeliveryAddress: "Cocody, Abidjan",
		DeliveryPhone:   "+225 07 00 00 00",
	}
}

func TestOrderConfirmationEmail(t *testing.T) {
	m, sent := newTestMailer(t, config.SMTPConfig{
		Host:        "smtp.example.ci",
		Port:        587,
		DefaultFrom: "no-reply@growwithgreen.ci",
	})

	require.NoError(t, m.OrderConfirmation(context.Background(), testUser(), testOrder()))

	require.Len(t, *sent, 1)
	mail := (*sent)[0]
	assert.Equal(t, "smtp.example.ci:587", mail.addr)
	assert.Equal(t, "no-reply@growwithgreen.ci", mail.from)
	assert.Equal(t, []string{"awa@example.ci"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Order GWG-1A2B3C4D confirmed")
	assert.Contains(t, mail.msg, "Hello Awa Kone")
	assert.Contains(t, mail.msg, "12500 FCFA")
}

func TestDisabledMailerDropsSilently(t *testing.T) {
	m, sent := newTestMailer(t, config.SMTPConfig{})

	require.NoError(t, m.OrderShipped(context.Background(), testUser(), testOrder()))
	assert.Empty(t, *sent)
}

func TestMissingRecipientRejected(t *testing.T) {
	m, _ := newTestMailer(t, config.SMTPConfig{Host: "smtp.example.ci", Port: 587})

	err := m.OrderDelivered(context.Background(), &models.User{}, testOrder())
	assert.Error(t, err)
}
