package email

// Provider отправляет письма пользователям
type Provider interface {
	Send(email *Email) error

	// SendTemplate рендерит шаблон и отправляет результат как HTML
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error

	Validate() error
	Close() error
}

// TemplateRenderer рендерит именованные шаблоны
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
}
