package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler       *AuthHandler
	ProfileHandler    *ProfileHandler
	DocumentHandler   *DocumentHandler
	AdminHandler      *AdminHandler
	ConnectionHandler *ConnectionHandler
	FileHandler       *FileHandler
	HealthHandler     *HealthHandler
}
