package models

import (
	"fmt"

	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"gorm.io/gorm"
)

func (p *Product) AfterCreate(tx *gorm.DB) (err error) {
	return SaveHistoryCreate(tx, p.ID, p, fmt.Sprintf("Created product %s.", p.Name))
}

func (p *Product) BeforeUpdate(tx *gorm.DB) (err error) {
	description := "Product updated."
	if tx.Statement.Changed("SalesPrice") || tx.Statement.Changed("CostPrice") {
		description = fmt.Sprintf("Product updated. Prices were sales %v, cost %v.", p.SalesPrice, p.CostPrice)
	}
	return SaveHistoryUpdate(tx, p.ID, p, description)
}

func (p *Product) AfterDelete(tx *gorm.DB) (err error) {
	return SaveHistoryDelete(tx, p.ID, p, fmt.Sprintf("Deleted product %s.", p.Name))
}

func (adj *StockAdjustment) AfterCreate(tx *gorm.DB) (err error) {
	return SaveHistoryCreate(tx, adj.ID, adj,
		fmt.Sprintf("Requested %s adjustment of %v for product %d.", adj.AdjustmentType, adj.Qty, adj.ProductId))
}

func (adj *StockAdjustment) BeforeUpdate(tx *gorm.DB) (err error) {
	description := "Stock adjustment updated."
	if tx.Statement.Changed("Status") {
		newStatus := tx.Statement.Dest.(map[string]interface{})["Status"]
		description = fmt.Sprintf("Stock adjustment %v.", newStatus)
	}
	return SaveHistoryUpdate(tx, adj.ID, adj, description)
}

func (po *PurchaseOrder) AfterCreate(tx *gorm.DB) (err error) {
	return SaveHistoryCreate(tx, po.ID, po, fmt.Sprintf("Created purchase order %s.", po.OrderNumber))
}

func (po *PurchaseOrder) BeforeUpdate(tx *gorm.DB) (err error) {
	description := fmt.Sprintf("Purchase order %s updated.", po.OrderNumber)
	if tx.Statement.Changed("Status") {
		newStatus := tx.Statement.Dest.(map[string]interface{})["Status"]
		description = fmt.Sprintf("Purchase order %s moved from %s to %v.", po.OrderNumber, po.Status, newStatus)
	}
	return SaveHistoryUpdate(tx, po.ID, po, description)
}

func (po *PurchaseOrder) AfterDelete(tx *gorm.DB) (err error) {
	return SaveHistoryDelete(tx, po.ID, po, fmt.Sprintf("Deleted purchase order %s.", po.OrderNumber))
}

func (s *SaleTransaction) AfterCreate(tx *gorm.DB) (err error) {
	return SaveHistoryCreate(tx, s.ID, s,
		fmt.Sprintf("Completed sale %s for %v.", s.SaleNumber, s.Total))
}

func (s *SaleTransaction) BeforeUpdate(tx *gorm.DB) (err error) {
	description := fmt.Sprintf("Sale %s updated.", s.SaleNumber)
	if tx.Statement.Changed("Status") {
		description = fmt.Sprintf("Voided sale %s of %v.", s.SaleNumber, s.Total)
	}
	return SaveHistoryUpdate(tx, s.ID, s, description)
}

func (j *Journal) AfterCreate(tx *gorm.DB) (err error) {
	// workflow-generated journals run outside a user session
	if _, ok := utils.GetUserIdFromContext(tx.Statement.Context); !ok {
		return nil
	}
	return SaveHistoryCreate(tx, j.ID, j,
		fmt.Sprintf("Created journal %s for %v.", j.JournalNumber, j.TotalAmount))
}
