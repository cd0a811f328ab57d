package mail

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Config 是投递通道的显式配置，由调用方组装后传入。
// 包内不读取任何进程级状态。
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	Subject  string
	Body     string
}

const (
	defaultHost = "smtp.gmail.com"
	defaultPort = 587
)

// ConfigFromEnv 从环境变量组装 SMTP 凭据与收件人：
// EMAIL / PASSWORD / RECIPIENT_EMAIL / SMTP_HOST / SMTP_PORT。
// 主机与端口缺省为 smtp.gmail.com:587。Subject/Body/To 由报告定义补全。
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Host:     defaultHost,
		Port:     defaultPort,
		Username: os.Getenv("EMAIL"),
		Password: os.Getenv("PASSWORD"),
		From:     os.Getenv("EMAIL"),
		To:       os.Getenv("RECIPIENT_EMAIL"),
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("SMTP_PORT 无法解析: %w", err)
		}
		cfg.Port = port
	}
	if cfg.Username == "" || cfg.Password == "" {
		return Config{}, fmt.Errorf("缺少 SMTP 凭据（EMAIL/PASSWORD 环境变量）")
	}
	return cfg, nil
}

// Send 发送一封带附件的纯文本邮件。投递失败由调用方决定是否记录；
// 本包不重试，也不删除已生成的附件文件。
func Send(cfg Config, attachmentPath string) error {
	if cfg.To == "" {
		return fmt.Errorf("缺少收件人")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", cfg.To)
	m.SetHeader("Subject", cfg.Subject)
	m.SetBody("text/plain", cfg.Body)
	m.Attach(attachmentPath)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}
