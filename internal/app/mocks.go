package app

import (
	"strings"

	"jobza_backend/internal/email"
	"jobza_backend/internal/logger"
)

// MockEmailProvider пишет письма в лог вместо отправки (SMTP не настроен).
type MockEmailProvider struct {
	renderer email.TemplateRenderer
}

func (m *MockEmailProvider) Send(msg *email.Email) error {
	logger.Info("Mock email", "to", strings.Join(msg.To, ","), "subject", msg.Subject)
	return nil
}

func (m *MockEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	if m.renderer != nil {
		if _, err := m.renderer.Render(templateName, data); err != nil {
			return err
		}
	}
	logger.Info("Mock email", "to", strings.Join(to, ","), "subject", subject, "template", templateName, "data", data)
	return nil
}

func (m *MockEmailProvider) Validate() error { return nil }
func (m *MockEmailProvider) Close() error    { return nil }
