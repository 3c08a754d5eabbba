package contextkeys

type contextKey string

// DBContextKey - ключ, по которому *gorm.DB (пул или транзакция) лежит в gin.Context
const DBContextKey = contextKey("db")

// Ключи аутентификации в gin.Context
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)
