package services

import "gorm.io/gorm"

// runInTx выполняет fn в транзакции; в тестах заменяется на прямой вызов
var runInTx = func(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.Transaction(fn)
}
