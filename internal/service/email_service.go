package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/models"

	"github.com/google/uuid"
)

const smtpDialTimeout = 10 * time.Second

// outgoingMail 待投递的单封邮件
type outgoingMail struct {
	From    string
	To      string
	Subject string
	Body    string
}

// mailSender 邮件投递函数，测试中可替换
type mailSender func(cfg *config.EmailConfig, mail outgoingMail) error

// EmailService 事务邮件服务（验证码、订单状态）
type EmailService struct {
	cfg  *config.EmailConfig
	send mailSender
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg, send: deliverSMTP}
}

// Enabled 是否已启用 SMTP
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// SendPasswordResetCode 发送密码重置验证码
func (s *EmailService) SendPasswordResetCode(toEmail, code string, ttlMinutes int) error {
	body := fmt.Sprintf("Your password reset code is: %s\n\nIt expires in %d minutes. If you did not request a reset, you can ignore this email.", code, ttlMinutes)
	return s.dispatch(toEmail, "Your Vestra password reset code", body)
}

// OrderStatusEmailInput 订单状态邮件输入
type OrderStatusEmailInput struct {
	OrderNumber string
	Status      string
	Amount      models.Money
}

// SendOrderStatusEmail 发送订单状态通知
func (s *EmailService) SendOrderStatusEmail(toEmail string, input OrderStatusEmailInput) error {
	subject, body := buildOrderStatusContent(input)
	return s.dispatch(toEmail, subject, body)
}

func (s *EmailService) dispatch(toEmail, subject, body string) error {
	if !s.Enabled() {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailNotConfigured
	}
	to, err := mail.ParseAddress(toEmail)
	if err != nil {
		return ErrInvalidEmail
	}
	return classifySMTPError(s.send(s.cfg, outgoingMail{
		From:    s.cfg.From,
		To:      to.Address,
		Subject: subject,
		Body:    body,
	}))
}

var orderStatusLabels = map[string]string{
	constants.OrderStatusPending:    "received",
	constants.OrderStatusConfirmed:  "confirmed",
	constants.OrderStatusProcessing: "being prepared",
	constants.OrderStatusShipped:    "on its way",
	constants.OrderStatusDelivered:  "delivered",
	constants.OrderStatusCancelled:  "cancelled",
}

// orderStatusLabel 面向顾客的状态描述
func orderStatusLabel(status string) string {
	if label, ok := orderStatusLabels[status]; ok {
		return label
	}
	return status
}

func buildOrderStatusContent(input OrderStatusEmailInput) (string, string) {
	status := strings.ToLower(strings.TrimSpace(input.Status))
	label := orderStatusLabel(status)
	subject := fmt.Sprintf("Order %s is %s", input.OrderNumber, label)
	body := fmt.Sprintf("Your order %s is %s.\nOrder total: %s", input.OrderNumber, label, input.Amount.String())
	if status == constants.OrderStatusCancelled {
		body += "\n\nAny reserved items have been returned to stock."
	}
	return subject, body
}

// render 生成 RFC 5322 纯文本邮件
func (m outgoingMail) render(fromName string, now time.Time) []byte {
	from := m.From
	if name := strings.TrimSpace(fromName); name != "" {
		from = (&mail.Address{Name: name, Address: m.From}).String()
	}
	domain := m.From[strings.LastIndex(m.From, "@")+1:]

	var buf bytes.Buffer
	headers := [][2]string{
		{"From", from},
		{"To", m.To},
		{"Subject", mime.QEncoding.Encode("UTF-8", m.Subject)},
		{"Date", now.Format(time.RFC1123Z)},
		{"Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/plain; charset=UTF-8"},
	}
	for _, h := range headers {
		buf.WriteString(h[0] + ": " + h[1] + "\r\n")
	}
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(m.Body, "\n", "\r\n"))
	return buf.Bytes()
}

// deliverSMTP 连接 SMTP 服务器投递；UseSSL 为隐式 TLS，UseTLS 为 STARTTLS
func deliverSMTP(cfg *config.EmailConfig, m outgoingMail) error {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	tlsConfig := &tls.Config{ServerName: cfg.Host}
	dialer := &net.Dialer{Timeout: smtpDialTimeout}

	var conn net.Conn
	var err error
	if cfg.UseSSL {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Close()

	if !cfg.UseSSL && cfg.UseTLS {
		if err := client.StartTLS(tlsConfig); err != nil {
			return err
		}
	}
	if cfg.Username != "" || cfg.Password != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)); err != nil {
				return err
			}
		}
	}
	if err := client.Mail(m.From); err != nil {
		return err
	}
	if err := client.Rcpt(m.To); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(m.render(cfg.FromName, time.Now())); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

var rejectedRecipientHints = []string{
	"no such recipient",
	"no such user",
	"recipient address rejected",
	"user unknown",
	"mailbox unavailable",
}

// classifySMTPError 收件人被拒绝的错误归类为 ErrEmailRejected
func classifySMTPError(err error) error {
	if err == nil {
		return nil
	}
	message := strings.ToLower(err.Error())
	for _, hint := range rejectedRecipientHints {
		if strings.Contains(message, hint) {
			return fmt.Errorf("%w: %v", ErrEmailRejected, err)
		}
	}
	return err
}
