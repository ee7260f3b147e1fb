// Package models holds the GORM persistence models and their domain mappings.
package models

// All returns every model, in dependency order, for AutoMigrate in tests and local tooling
func All() []any {
	return []any{
		&UserModel{},
		&StoreModel{},
		&ProductModel{},
		&CategoryImageModel{},
		&CustomerModel{},
		&OrderModel{},
		&OrderItemModel{},
		&NotificationModel{},
		&CartItemModel{},
		&WishlistItemModel{},
	}
}
