package service

import (
	"crypto/tls"
	"fmt"
	"time"

	"shop-backend/config"
	"shop-backend/internal/util"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// WelcomeMailer 注册成功后发送欢迎邮件
type WelcomeMailer interface {
	SendWelcomeEmail(email, username string) error
}

type EmailService struct {
	smtpHost string
	smtpPort int
	username string
	password string
	enabled  bool
	// send 实际投递邮件，测试中可替换
	send func(m *mail.Message) error
}

// NewEmailService 根据全局配置创建邮件服务，未配置 SMTP 时不发送任何邮件
func NewEmailService() *EmailService {
	s := &EmailService{
		smtpHost: config.AppConfig.SMTPHost,
		smtpPort: config.AppConfig.SMTPPort,
		username: config.AppConfig.SMTPUsername,
		password: config.AppConfig.SMTPPassword,
		enabled:  config.AppConfig.SMTPEnabled(),
	}
	s.send = s.dialAndSend
	return s
}

// SendWelcomeEmail 异步发送欢迎邮件
func (s *EmailService) SendWelcomeEmail(email, username string) error {
	if !s.enabled || email == "" {
		return nil
	}

	m := s.newMessage(email, "欢迎注册", fmt.Sprintf("亲爱的 %s，\n\n您的账户已创建成功，祝您购物愉快！", username))
	go func() {
		if err := s.send(m); err != nil {
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.String("to", email))
		}
	}()
	return nil
}

func (s *EmailService) newMessage(to, subject, body string) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

func (s *EmailService) dialAndSend(m *mail.Message) error {
	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = s.smtpPort == 465
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}

	util.Logger.Info("开始发送邮件", zap.Strings("to", m.GetHeader("To")))
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	util.Logger.Info("邮件发送成功", zap.Strings("to", m.GetHeader("To")))
	return nil
}
