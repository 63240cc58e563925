package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/models"
)

func newCapturingEmailService(sendErr error) (*EmailService, *[]outgoingMail) {
	sent := make([]outgoingMail, 0)
	svc := &EmailService{
		cfg: &config.EmailConfig{Enabled: true, Host: "smtp.test", Port: 587, From: "orders@vestra.test", FromName: "Vestra"},
		send: func(_ *config.EmailConfig, m outgoingMail) error {
			sent = append(sent, m)
			return sendErr
		},
	}
	return svc, &sent
}

func TestSendOrderStatusEmail(t *testing.T) {
	svc, sent := newCapturingEmailService(nil)
	err := svc.SendOrderStatusEmail("Ana <ana@example.com>", OrderStatusEmailInput{
		OrderNumber: "VS20261018ABC123",
		Status:      constants.OrderStatusCancelled,
		Amount:      models.MustMoney("99.80"),
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(*sent))
	}
	m := (*sent)[0]
	if m.To != "ana@example.com" || m.Subject != "Order VS20261018ABC123 is cancelled" {
		t.Fatalf("unexpected mail: %+v", m)
	}
	if !strings.Contains(m.Body, "99.80") || !strings.Contains(m.Body, "returned to stock") {
		t.Fatalf("unexpected body: %s", m.Body)
	}
}

func TestEmailServiceGuards(t *testing.T) {
	if err := NewEmailService(&config.EmailConfig{Enabled: false}).SendPasswordResetCode("a@b.c", "123456", 10); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}
	if err := NewEmailService(&config.EmailConfig{Enabled: true}).SendPasswordResetCode("a@b.c", "123456", 10); !errors.Is(err, ErrEmailNotConfigured) {
		t.Fatalf("expected ErrEmailNotConfigured, got %v", err)
	}
	svc, sent := newCapturingEmailService(nil)
	if err := svc.SendPasswordResetCode("not-an-address", "123456", 10); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if len(*sent) != 0 {
		t.Fatalf("invalid address should not be sent")
	}
}

func TestEmailRejectedRecipient(t *testing.T) {
	svc, _ := newCapturingEmailService(errors.New("550 5.1.1 User unknown"))
	if err := svc.SendPasswordResetCode("gone@example.com", "123456", 10); !errors.Is(err, ErrEmailRejected) {
		t.Fatalf("expected ErrEmailRejected, got %v", err)
	}
}

func TestOutgoingMailRender(t *testing.T) {
	m := outgoingMail{From: "orders@vestra.test", To: "ana@example.com", Subject: "Order shipped", Body: "line one\nline two"}
	raw := string(m.render("Vestra", time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)))

	for _, want := range []string{
		"From: \"Vestra\" <orders@vestra.test>\r\n",
		"To: ana@example.com\r\n",
		"Subject: Order shipped\r\n",
		"Date: Sun, 18 Oct 2026 09:00:00 +0000\r\n",
		"@vestra.test>\r\n",
		"\r\n\r\nline one\r\nline two",
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("rendered mail missing %q:\n%s", want, raw)
		}
	}
}
