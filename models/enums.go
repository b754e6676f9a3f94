package models

import (
	"encoding/json"
	"errors"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "A"
	UserRoleManager UserRole = "M"
	UserRoleCashier UserRole = "C"
)

// convert input to enum type
func (t *UserRole) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("user role must be string")
	}
	switch str {
	case "A":
		*t = UserRoleAdmin
	case "M":
		*t = UserRoleManager
	case "C":
		*t = UserRoleCashier
	default:
		return errors.New("invalid user role")
	}
	return nil
}

type AccountMainType string

const (
	AccountMainTypeAsset     AccountMainType = "Asset"
	AccountMainTypeLiability AccountMainType = "Liability"
	AccountMainTypeEquity    AccountMainType = "Equity"
	AccountMainTypeIncome    AccountMainType = "Income"
	AccountMainTypeExpense   AccountMainType = "Expense"
)

func (t *AccountMainType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("account main type must be string")
	}
	switch str {
	case "Asset":
		*t = AccountMainTypeAsset
	case "Liability":
		*t = AccountMainTypeLiability
	case "Equity":
		*t = AccountMainTypeEquity
	case "Income":
		*t = AccountMainTypeIncome
	case "Expense":
		*t = AccountMainTypeExpense
	default:
		return errors.New("invalid account main type")
	}
	return nil
}

type AccountDetailType string

const (
	AccountDetailTypeCash                  AccountDetailType = "Cash"
	AccountDetailTypeBank                  AccountDetailType = "Bank"
	AccountDetailTypeStock                 AccountDetailType = "Stock"
	AccountDetailTypeAccountsReceivable    AccountDetailType = "AccountsReceivable"
	AccountDetailTypeOtherCurrentAsset     AccountDetailType = "OtherCurrentAsset"
	AccountDetailTypeFixedAsset            AccountDetailType = "FixedAsset"
	AccountDetailTypeAccountsPayable       AccountDetailType = "AccountsPayable"
	AccountDetailTypeOtherCurrentLiability AccountDetailType = "OtherCurrentLiability"
	AccountDetailTypeEquity                AccountDetailType = "Equity"
	AccountDetailTypeIncome                AccountDetailType = "Income"
	AccountDetailTypeOtherIncome           AccountDetailType = "OtherIncome"
	AccountDetailTypeExpense               AccountDetailType = "Expense"
	AccountDetailTypeCostOfGoodsSold       AccountDetailType = "CostOfGoodsSold"
)

func (t *AccountDetailType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("accountDetailType must be string")
	}
	accountDetailTypes := map[string]AccountDetailType{
		"Cash":                  AccountDetailTypeCash,
		"Bank":                  AccountDetailTypeBank,
		"Stock":                 AccountDetailTypeStock,
		"AccountsReceivable":    AccountDetailTypeAccountsReceivable,
		"OtherCurrentAsset":     AccountDetailTypeOtherCurrentAsset,
		"FixedAsset":            AccountDetailTypeFixedAsset,
		"AccountsPayable":       AccountDetailTypeAccountsPayable,
		"OtherCurrentLiability": AccountDetailTypeOtherCurrentLiability,
		"Equity":                AccountDetailTypeEquity,
		"Income":                AccountDetailTypeIncome,
		"OtherIncome":           AccountDetailTypeOtherIncome,
		"Expense":               AccountDetailTypeExpense,
		"CostOfGoodsSold":       AccountDetailTypeCostOfGoodsSold,
	}
	var ok bool
	*t, ok = accountDetailTypes[str]
	if !ok {
		return errors.New("invalid accountDetailType")
	}
	return nil
}

// mapping of detail type to its main type, used when seeding and validating accounts
func (t AccountDetailType) MainType() AccountMainType {
	switch t {
	case AccountDetailTypeCash, AccountDetailTypeBank, AccountDetailTypeStock,
		AccountDetailTypeAccountsReceivable, AccountDetailTypeOtherCurrentAsset,
		AccountDetailTypeFixedAsset:
		return AccountMainTypeAsset
	case AccountDetailTypeAccountsPayable, AccountDetailTypeOtherCurrentLiability:
		return AccountMainTypeLiability
	case AccountDetailTypeEquity:
		return AccountMainTypeEquity
	case AccountDetailTypeIncome, AccountDetailTypeOtherIncome:
		return AccountMainTypeIncome
	default:
		return AccountMainTypeExpense
	}
}

type PubSubMessageAction string

const (
	PubSubMessageActionCreate PubSubMessageAction = "C"
	PubSubMessageActionUpdate PubSubMessageAction = "U"
	PubSubMessageActionDelete PubSubMessageAction = "D"
)

// AccountReferenceType identifies the source document of a posted journal.
type AccountReferenceType string

const (
	AccountReferenceTypeSale            AccountReferenceType = "SL"
	AccountReferenceTypeSaleVoid        AccountReferenceType = "SLV"
	AccountReferenceTypePurchaseReceive AccountReferenceType = "POR"
	AccountReferenceTypeStockAdjustment AccountReferenceType = "ADJ"
	AccountReferenceTypeJournal         AccountReferenceType = "JN"
)

type StockMovementType string

const (
	StockMovementTypeIn  StockMovementType = "I"
	StockMovementTypeOut StockMovementType = "O"
)

type StockReferenceType string

const (
	StockReferenceTypeSale            StockReferenceType = "Sale"
	StockReferenceTypeSaleVoid        StockReferenceType = "SaleVoid"
	StockReferenceTypePurchaseReceive StockReferenceType = "PurchaseReceive"
	StockReferenceTypeAdjustment      StockReferenceType = "Adjustment"
	StockReferenceTypeOpeningStock    StockReferenceType = "OpeningStock"
)

type AdjustmentStatus string

const (
	AdjustmentStatusPending  AdjustmentStatus = "Pending"
	AdjustmentStatusApproved AdjustmentStatus = "Approved"
	AdjustmentStatusRejected AdjustmentStatus = "Rejected"
)

type AdjustmentType string

const (
	AdjustmentTypeIncrease AdjustmentType = "Increase"
	AdjustmentTypeDecrease AdjustmentType = "Decrease"
)

func (t *AdjustmentType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("adjustment type must be string")
	}
	switch str {
	case "Increase":
		*t = AdjustmentTypeIncrease
	case "Decrease":
		*t = AdjustmentTypeDecrease
	default:
		return errors.New("invalid adjustment type")
	}
	return nil
}

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "Draft"
	PurchaseOrderStatusOrdered   PurchaseOrderStatus = "Ordered"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "Received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "Cancelled"
)

type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "Completed"
	SaleStatusVoided    SaleStatus = "Voided"
)

type FiscalYear string

const (
	FiscalYearJan FiscalYear = "Jan"
	FiscalYearFeb FiscalYear = "Feb"
	FiscalYearMar FiscalYear = "Mar"
	FiscalYearApr FiscalYear = "Apr"
	FiscalYearMay FiscalYear = "May"
	FiscalYearJun FiscalYear = "Jun"
	FiscalYearJul FiscalYear = "Jul"
	FiscalYearAug FiscalYear = "Aug"
	FiscalYearSep FiscalYear = "Sep"
	FiscalYearOct FiscalYear = "Oct"
	FiscalYearNov FiscalYear = "Nov"
	FiscalYearDec FiscalYear = "Dec"
)

type JournalStatus string

const (
	JournalStatusPosted   JournalStatus = "Posted"
	JournalStatusReversed JournalStatus = "Reversed"
)

type Precision string

const (
	PrecisionZero  Precision = "0"
	PrecisionOne   Precision = "1"
	PrecisionTwo   Precision = "2"
	PrecisionThree Precision = "3"
	PrecisionFour  Precision = "4"
)

func (p *Precision) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("precision must be string")
	}

	switch str {
	case "0":
		*p = PrecisionZero
	case "1":
		*p = PrecisionOne
	case "2":
		*p = PrecisionTwo
	case "3":
		*p = PrecisionThree
	case "4":
		*p = PrecisionFour
	default:
		return errors.New("invalid precision")
	}
	return nil
}

// decimal places as an int32 exponent for rounding quantities
func (p Precision) Places() int32 {
	switch p {
	case PrecisionOne:
		return 1
	case PrecisionTwo:
		return 2
	case PrecisionThree:
		return 3
	case PrecisionFour:
		return 4
	default:
		return 0
	}
}
