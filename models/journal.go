package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Journal struct {
	ID            int                  `gorm:"primary_key" json:"id"`
	BusinessId    string               `gorm:"index;not null" json:"business_id"`
	BranchId      int                  `gorm:"index" json:"branch_id"`
	JournalNumber string               `gorm:"size:255;not null" json:"journal_number"`
	SequenceNo    int64                `gorm:"not null;default:0" json:"sequence_no"`
	JournalDate   time.Time            `gorm:"not null" json:"journal_date"`
	Notes         string               `gorm:"type:text" json:"notes"`
	ReferenceType AccountReferenceType `gorm:"size:5;index:idx_journal_reference" json:"reference_type"`
	ReferenceId   int                  `gorm:"index:idx_journal_reference" json:"reference_id"`
	Status        JournalStatus        `gorm:"type:enum('Posted','Reversed');default:'Posted'" json:"status"`
	TotalAmount   decimal.Decimal      `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Transactions  []JournalTransaction `gorm:"foreignKey:JournalId" json:"transactions"`
	CreatedAt     time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

type JournalTransaction struct {
	ID          int             `gorm:"primary_key" json:"id"`
	JournalId   int             `gorm:"index;not null" json:"journal_id"`
	AccountId   int             `gorm:"index;not null" json:"account_id"`
	BranchId    int             `json:"branch_id"`
	Description string          `gorm:"size:255" json:"description"`
	Debit       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"debit"`
	Credit      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit"`
}

type NewJournal struct {
	BranchId     int                     `json:"branch_id"`
	JournalDate  time.Time               `json:"journal_date" binding:"required"`
	Notes        string                  `json:"notes"`
	Transactions []NewJournalTransaction `json:"transactions" binding:"required"`
}

type NewJournalTransaction struct {
	AccountId   int             `json:"account_id" binding:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

type JournalsEdge Edge[Journal]
type JournalsConnection struct {
	PageInfo *PageInfo       `json:"pageInfo"`
	Edges    []*JournalsEdge `json:"edges"`
}

func (j Journal) GetBusinessId() string {
	return j.BusinessId
}

func (j Journal) GetId() int {
	return j.ID
}

func (j Journal) GetCursor() string {
	return j.CreatedAt.String()
}

func (jt JournalTransaction) GetId() int {
	return jt.ID
}

func (input *NewJournal) validate(ctx context.Context, businessId string) error {
	if err := utils.ValidateResourceId[Branch](ctx, businessId, input.BranchId); err != nil {
		return errors.New("branch not found")
	}
	if len(input.Transactions) < 2 {
		return errors.New("a journal needs at least two lines")
	}
	var accountIds []int
	for _, t := range input.Transactions {
		accountIds = append(accountIds, t.AccountId)
	}
	if err := utils.ValidateResourcesId[Account](ctx, businessId, accountIds); err != nil {
		return errors.New("account not found")
	}
	return nil
}

// receiveJournalTransactions builds the lines and enforces the double-entry
// invariant: every line is debit xor credit, and total debit equals total credit.
func receiveJournalTransactions(input *NewJournal, journalId int) ([]JournalTransaction, decimal.Decimal, error) {
	transactions := make([]JournalTransaction, 0, len(input.Transactions))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, t := range input.Transactions {
		if t.Debit.IsNegative() || t.Credit.IsNegative() {
			return nil, decimal.Zero, errors.New("debit and credit cannot be negative")
		}
		if t.Debit.IsZero() == t.Credit.IsZero() {
			return nil, decimal.Zero, errors.New("either debit or credit must have value")
		}
		totalDebit = totalDebit.Add(t.Debit)
		totalCredit = totalCredit.Add(t.Credit)
		transactions = append(transactions, JournalTransaction{
			JournalId:   journalId,
			AccountId:   t.AccountId,
			BranchId:    input.BranchId,
			Description: t.Description,
			Debit:       t.Debit,
			Credit:      t.Credit,
		})
	}
	if !totalDebit.Equal(totalCredit) {
		return nil, decimal.Zero, errors.New("journal is not balanced")
	}
	return transactions, totalDebit, nil
}

func CreateJournal(ctx context.Context, input *NewJournal) (*Journal, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if input.BranchId == 0 {
		input.BranchId, err = branchIdFromContext(ctx)
		if err != nil {
			return nil, err
		}
	}
	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}
	if err := CheckAccountingTransactionLock(ctx, input.JournalDate); err != nil {
		return nil, err
	}
	transactions, totalAmount, err := receiveJournalTransactions(input, 0)
	if err != nil {
		return nil, err
	}

	seqNo, err := utils.GetSequence[Journal](ctx, businessId)
	if err != nil {
		return nil, err
	}

	journal := Journal{
		BusinessId:    businessId,
		BranchId:      input.BranchId,
		JournalNumber: fmt.Sprintf("JN-%d", seqNo),
		SequenceNo:    seqNo,
		JournalDate:   input.JournalDate,
		Notes:         input.Notes,
		ReferenceType: AccountReferenceTypeJournal,
		Status:        JournalStatusPosted,
		TotalAmount:   totalAmount,
		Transactions:  transactions,
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&journal).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &journal, nil
}

// CreateJournalInTx writes a system-generated journal inside the caller's
// transaction. Used by the posting workflow; lines must already balance.
func CreateJournalInTx(ctx context.Context, tx *gorm.DB, businessId string, branchId int,
	journalDate time.Time, notes string, referenceType AccountReferenceType, referenceId int,
	lines []JournalTransaction) (*Journal, error) {

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	if !totalDebit.Equal(totalCredit) {
		return nil, errors.New("journal is not balanced")
	}
	if totalDebit.IsZero() {
		return nil, errors.New("journal has no amount")
	}

	seqNo, err := utils.GetSequence[Journal](ctx, businessId)
	if err != nil {
		return nil, err
	}

	journal := Journal{
		BusinessId:    businessId,
		BranchId:      branchId,
		JournalNumber: fmt.Sprintf("JN-%d", seqNo),
		SequenceNo:    seqNo,
		JournalDate:   journalDate,
		Notes:         notes,
		ReferenceType: referenceType,
		ReferenceId:   referenceId,
		Status:        JournalStatusPosted,
		TotalAmount:   totalDebit,
		Transactions:  lines,
	}
	if err := tx.WithContext(ctx).Create(&journal).Error; err != nil {
		return nil, err
	}
	return &journal, nil
}

func GetJournal(ctx context.Context, id int) (*Journal, error) {
	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Journal](ctx, businessId, id, "Transactions")
}

func PaginateJournals(ctx context.Context, limit int, after *string, journalNumber *string,
	branchId *int, fromDate *time.Time, toDate *time.Time) (*JournalsConnection, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Transactions").Where("business_id = ?", businessId)
	if journalNumber != nil && *journalNumber != "" {
		dbCtx = dbCtx.Where("journal_number LIKE ?", "%"+*journalNumber+"%")
	}
	if branchId != nil && *branchId > 0 {
		dbCtx = dbCtx.Where("branch_id = ?", *branchId)
	}
	if fromDate != nil && toDate != nil {
		dbCtx = dbCtx.Where("journal_date BETWEEN ? AND ?", *fromDate, *toDate)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[Journal](dbCtx, limit, after, "created_at", "<")
	if err != nil {
		return nil, err
	}
	var connection JournalsConnection
	connection.PageInfo = pageInfo
	for _, edge := range edges {
		journalEdge := JournalsEdge(edge)
		connection.Edges = append(connection.Edges, &journalEdge)
	}
	return &connection, nil
}
