package email

import "time"

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

type Attachment struct {
	Name        string
	Content     []byte
	ContentType string
}

// Email - одно исходящее письмо
type Email struct {
	From        string
	To          []string
	Cc          []string
	Subject     string
	Body        string
	HTMLBody    string
	Attachments []Attachment
}

// TemplateData - данные для шаблонов писем
type TemplateData map[string]interface{}

// Названия встроенных шаблонов
const (
	TemplateVerification   = "verification"
	TemplatePasswordReset  = "password_reset"
	TemplateDocumentJudged = "document_judged"
	TemplateStatusChanged  = "status_changed"
)
