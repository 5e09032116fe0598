package models

// All returns every model in dependency order. AutoMigrate uses it for SQLite
// databases; Postgres schemas come from the SQL migrations.
func All() []any {
	return []any{
		&CustomerModel{},
		&SupplierModel{},
		&ProductModel{},
		&WarehouseModel{},
		&InventoryItemModel{},
		&InventoryTransactionModel{},
		&OrderModel{},
		&OrderItemModel{},
		&PurchaseOrderModel{},
		&PurchaseOrderItemModel{},
		&RecipeModel{},
		&RecipeItemModel{},
		&ProductionModel{},
		&ProductionItemModel{},
		&DeliveryModel{},
		&NotificationModel{},
		&POSSessionModel{},
		&POSOrderModel{},
		&POSOrderItemModel{},
		&POSPaymentModel{},
		&ReceiptModel{},
	}
}
