package mail

import "testing"

// TestConfigFromEnvDefaults 断言：仅提供凭据时主机端口取缺省值，
// 发件人与用户名都取 EMAIL。
func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("EMAIL", "sender@example.com")
	t.Setenv("PASSWORD", "secret")
	t.Setenv("RECIPIENT_EMAIL", "reader@example.com")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("读取配置失败: %v", err)
	}
	if cfg.Host != "smtp.gmail.com" || cfg.Port != 587 {
		t.Fatalf("缺省主机端口错误: %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.Username != "sender@example.com" || cfg.From != "sender@example.com" {
		t.Fatalf("发件人配置错误: %+v", cfg)
	}
	if cfg.To != "reader@example.com" {
		t.Fatalf("收件人配置错误: %q", cfg.To)
	}
}

// TestConfigFromEnvOverrides 断言：SMTP_HOST/SMTP_PORT 覆盖缺省值。
func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("EMAIL", "sender@example.com")
	t.Setenv("PASSWORD", "secret")
	t.Setenv("SMTP_HOST", "mail.internal")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("读取配置失败: %v", err)
	}
	if cfg.Host != "mail.internal" || cfg.Port != 2525 {
		t.Fatalf("覆盖后的主机端口错误: %s:%d", cfg.Host, cfg.Port)
	}
}

// TestConfigFromEnvMissingCredentials 断言：缺少 EMAIL 或 PASSWORD 直接报错。
func TestConfigFromEnvMissingCredentials(t *testing.T) {
	t.Setenv("EMAIL", "")
	t.Setenv("PASSWORD", "secret")
	if _, err := ConfigFromEnv(); err == nil {
		t.Fatalf("缺少 EMAIL 应报错")
	}

	t.Setenv("EMAIL", "sender@example.com")
	t.Setenv("PASSWORD", "")
	if _, err := ConfigFromEnv(); err == nil {
		t.Fatalf("缺少 PASSWORD 应报错")
	}
}

// TestConfigFromEnvBadPort 断言：SMTP_PORT 非数字时报错。
func TestConfigFromEnvBadPort(t *testing.T) {
	t.Setenv("EMAIL", "sender@example.com")
	t.Setenv("PASSWORD", "secret")
	t.Setenv("SMTP_PORT", "not-a-port")
	if _, err := ConfigFromEnv(); err == nil {
		t.Fatalf("非法端口应报错")
	}
}

// TestSendRequiresRecipient 断言：缺少收件人时不发起连接直接报错。
func TestSendRequiresRecipient(t *testing.T) {
	err := Send(Config{Host: "localhost", Port: 2525, From: "a@b"}, "news.pdf")
	if err == nil {
		t.Fatalf("缺少收件人应报错")
	}
}
