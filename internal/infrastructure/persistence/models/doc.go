// Package models contains the GORM persistence models. Each model converts
// to and from its domain type with ToDomain and a From* constructor.
package models

// AllModels lists every model, in dependency order, for AutoMigrate in tests.
// Production schemas come from the SQL migrations.
func AllModels() []any {
	return []any{
		&AdminModel{},
		&CustomerModel{},
		&PasswordResetModel{},
		&CategoryModel{},
		&ImageModel{},
		&ProductModel{},
		&ConfigurableOptionModel{},
		&OrderModel{},
		&InvoiceModel{},
		&TransactionModel{},
		&ConfigModel{},
	}
}
