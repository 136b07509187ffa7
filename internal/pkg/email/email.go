package email

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/qs3c/gym_go_server/config"
)

type Service struct {
	cfg  *config.EmailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg, send: smtp.SendMail}
}

// Enabled 未配置 SMTP 时不发送
func (s *Service) Enabled() bool {
	return s.cfg != nil && s.cfg.SMTPHost != ""
}

// SendExpirySummary 通知馆主哪些会员因到期被停用
func (s *Service) SendExpirySummary(to, ownerName, gymName string, memberNames []string) error {
	subject := fmt.Sprintf("%d member(s) deactivated - %s", len(memberNames), gymName)

	var items strings.Builder
	for _, name := range memberNames {
		items.WriteString("            <li>")
		items.WriteString(html.EscapeString(name))
		items.WriteString("</li>\n")
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #dc2626;">Expired memberships</h2>
        <p>Hello %s,</p>
        <p>The following members of <strong>%s</strong> have expired memberships and have been automatically deactivated:</p>
        <ul>
%s        </ul>
        <p>Record a payment for a member to reactivate their membership.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
`, html.EscapeString(ownerName), html.EscapeString(gymName), items.String())

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	if !s.Enabled() {
		return fmt.Errorf("email: smtp not configured")
	}

	headers := [][2]string{
		{"From", s.cfg.From},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}

	var msg strings.Builder
	for _, h := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", h[0], h[1]))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return s.send(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
