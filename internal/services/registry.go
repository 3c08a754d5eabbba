package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService       AuthService
	GoogleAuthService GoogleAuthService
	ProfileService    ProfileService
	DocumentService   DocumentService
	AdminService      AdminService
	ConnectionService ConnectionService
	Statuses          *StatusDispatcher
}
