package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/bms_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateAccountHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewAccount
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		account, err := models.CreateAccount(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, account)
	}
}

func UpdateAccountHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.NewAccount
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		account, err := models.UpdateAccount(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, account)
	}
}

func DeleteAccountHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		account, err := models.DeleteAccount(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, account)
	}
}

func GetAccountHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		account, err := models.GetAccount(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, account)
	}
}

func GetAccountsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var mainType *models.AccountMainType
		if v := c.Query("main_type"); v != "" {
			mt := models.AccountMainType(v)
			mainType = &mt
		}
		accounts, err := models.GetAccounts(c.Request.Context(), queryString(c, "name"), queryString(c, "code"), mainType)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, accounts)
	}
}

func ListAllAccountsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		accounts, err := models.ListAllAccounts(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, accounts)
	}
}

func ToggleActiveAccountHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var req toggleActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, err)
			return
		}
		account, err := models.MarkAccountActive(c.Request.Context(), id, *req.IsActive)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, account)
	}
}

func CreateJournalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewJournal
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		journal, err := models.CreateJournal(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, journal)
	}
}

func GetJournalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		journal, err := models.GetJournal(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, journal)
	}
}

func PaginateJournalsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		connection, err := models.PaginateJournals(c.Request.Context(), queryLimit(c), queryAfter(c),
			queryString(c, "journal_number"), queryInt(c, "branch_id"),
			queryDate(c, "from_date"), queryDate(c, "to_date"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, connection)
	}
}
