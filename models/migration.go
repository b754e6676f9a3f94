package models

import (
	"log"

	"bitbucket.org/mmdatafocus/bms_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Business{}, &Branch{}, &Module{}, &Role{}, &RoleModule{}, &User{},
		&PaymentMode{},
		&Account{},
		&ProductCategory{}, &ProductUnit{}, &Product{},
		&Supplier{}, &Customer{},
		&StockSummary{}, &StockHistory{}, &StockAdjustment{},
		&PurchaseOrder{}, &PurchaseOrderDetail{},
		&SaleTransaction{}, &SaleDetail{},
		&Journal{}, &JournalTransaction{},
		&Attendance{}, &Message{},
		&DailySummary{},
		&History{},
		&PubSubMessageRecord{},
		&IdempotencyKey{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
