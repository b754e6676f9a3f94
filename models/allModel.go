package models

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/shopspring/decimal"
)

// lightweight projections for cached "list all" queries

type HasId struct {
	ID int `json:"id"`
}

func (h HasId) GetId() int {
	return h.ID
}

type AllAccount struct {
	HasId
	Name              string            `json:"name"`
	Code              string            `json:"code"`
	DetailType        AccountDetailType `json:"detail_type"`
	MainType          AccountMainType   `json:"main_type"`
	IsActive          bool              `json:"is_active"`
	SystemDefaultCode string            `json:"system_default_code"`
}

type AllBranch struct {
	HasId
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type AllPaymentMode struct {
	HasId
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type AllProductCategory struct {
	HasId
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type AllProductUnit struct {
	HasId
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	IsActive     bool   `json:"is_active"`
}

type AllProduct struct {
	HasId
	Name         string          `json:"name"`
	Sku          string          `json:"sku"`
	Barcode      string          `json:"barcode"`
	SalesPrice   decimal.Decimal `json:"sales_price"`
	CategoryId   int             `json:"category_id"`
	UnitId       int             `json:"unit_id"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	IsActive     bool            `json:"is_active"`
}

type AllRole struct {
	HasId
	Name string   `json:"name"`
	Code UserRole `json:"code"`
}

type AllUser struct {
	HasId
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	BranchId int      `json:"branch_id"`
	IsActive bool     `json:"is_active"`
}

// get AllModelMap for lookups, redis or db
func MapAllModel[ModelT any, AllT Identifier](ctx context.Context) (map[int]*AllT, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	key := utils.GetTypeName[AllT]() + "Map:" + businessId

	var allMap map[int]*AllT

	// retrieve from redis
	if exists, err := config.GetRedisObject(key, &allMap); err != nil {
		return nil, err
	} else if !exists {
		// if the map has not been cached yet
		// fetch resources and construct the map, cache the result
		allMap = make(map[int]*AllT)
		var allSlice []*AllT
		db := config.GetDB()
		var m ModelT
		dbCtx := db.WithContext(ctx).Model(&m)
		dbCtx.Where("business_id = ?", businessId)
		if err := dbCtx.Find(&allSlice).Error; err != nil {
			return nil, err
		}

		// fill the map
		for _, allModel := range allSlice {
			allMap[(*allModel).GetId()] = allModel
		}

		if err := config.SetRedisObject(key, &allMap, 0); err != nil {
			return nil, err
		}
	}

	return allMap, nil
}
