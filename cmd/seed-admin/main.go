// seed-admin bootstraps a development business with branches, staff users,
// a small catalog and opening stock. Safe to rerun: it exits when the seed
// business already exists.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/models"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/shopspring/decimal"
)

const (
	seedBusinessEmail = "owner@demo.bms.local"
	seedBusinessName  = "Demo Store"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	var count int64
	if err := db.WithContext(ctx).Model(&models.Business{}).Where("email = ?", seedBusinessEmail).Count(&count).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to check existing business: %v\n", err)
		os.Exit(1)
	}
	if count > 0 {
		fmt.Printf("business %q already seeded, nothing to do\n", seedBusinessEmail)
		return
	}

	// History hooks need user identity in context.
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Seed")

	business, err := models.CreateBusiness(ctx, &models.NewBusiness{
		Name:           seedBusinessName,
		ContactName:    "Demo Owner",
		Email:          seedBusinessEmail,
		Timezone:       "Asia/Yangon",
		CurrencySymbol: "Ks",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create business: %v\n", err)
		os.Exit(1)
	}
	businessId := business.ID.String()
	fmt.Printf("created business %s (%s), owner username=%q password=%q\n",
		seedBusinessName, businessId, seedBusinessEmail, "default123")

	ctx = utils.SetBusinessIdInContext(ctx, businessId)

	branch, err := models.CreateBranch(ctx, &models.NewBranch{
		Name:    "Downtown",
		Address: "12 Market St",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create branch: %v\n", err)
		os.Exit(1)
	}

	users := []models.NewUser{
		{BranchId: branch.ID, Username: "manager1", Name: "Branch Manager", Password: "manager123",
			IsActive: utils.NewTrue(), Role: models.UserRoleManager},
		{BranchId: branch.ID, Username: "cashier1", Name: "Counter Cashier", Password: "cashier123",
			IsActive: utils.NewTrue(), Role: models.UserRoleCashier},
	}
	for i := range users {
		if _, err := models.CreateUser(ctx, &users[i]); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create user %s: %v\n", users[i].Username, err)
			os.Exit(1)
		}
	}
	fmt.Println("created users: manager1/manager123, cashier1/cashier123")

	category, err := models.CreateProductCategory(ctx, &models.NewProductCategory{Name: "Beverages"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create category: %v\n", err)
		os.Exit(1)
	}
	unit, err := models.CreateProductUnit(ctx, &models.NewProductUnit{Name: "Bottle", Abbreviation: "btl"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create unit: %v\n", err)
		os.Exit(1)
	}

	products := []models.NewProduct{
		{Name: "Drinking Water 1L", Sku: "WAT-001", Barcode: "8850001000011",
			CategoryId: category.ID, UnitId: unit.ID,
			SalesPrice: decimal.NewFromInt(500), CostPrice: decimal.NewFromInt(300),
			ReorderLevel: decimal.NewFromInt(24),
			OpeningStocks: []models.NewOpeningStock{
				{BranchId: branch.ID, Qty: decimal.NewFromInt(120), UnitCost: decimal.NewFromInt(300)},
			}},
		{Name: "Orange Juice 500ml", Sku: "JUC-001", Barcode: "8850001000028",
			CategoryId: category.ID, UnitId: unit.ID,
			SalesPrice: decimal.NewFromInt(1500), CostPrice: decimal.NewFromInt(900),
			ReorderLevel: decimal.NewFromInt(12),
			OpeningStocks: []models.NewOpeningStock{
				{BranchId: branch.ID, Qty: decimal.NewFromInt(48), UnitCost: decimal.NewFromInt(900)},
			}},
	}
	for i := range products {
		if _, err := models.CreateProduct(ctx, &products[i]); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create product %s: %v\n", products[i].Sku, err)
			os.Exit(1)
		}
	}
	fmt.Println("seeded catalog and opening stock")
}
