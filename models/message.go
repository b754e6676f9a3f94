package models

import (
	"context"
	"errors"
	"html"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
)

type Message struct {
	ID          int        `gorm:"primary_key" json:"id"`
	BusinessId  string     `gorm:"index;not null" json:"business_id"`
	SenderId    int        `gorm:"index;not null" json:"sender_id"`
	RecipientId int        `gorm:"index;not null" json:"recipient_id"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	ReadAt      *time.Time `json:"read_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewMessage struct {
	RecipientId int    `json:"recipient_id" binding:"required"`
	Body        string `json:"body" binding:"required"`
}

type MessagesEdge Edge[Message]
type MessagesConnection struct {
	PageInfo *PageInfo       `json:"pageInfo"`
	Edges    []*MessagesEdge `json:"edges"`
}

func (m Message) GetBusinessId() string {
	return m.BusinessId
}

func (m Message) GetId() int {
	return m.ID
}

func (m Message) GetCursor() string {
	return m.CreatedAt.String()
}

func (m Message) GetRecipientId() int {
	return m.RecipientId
}

func SendMessage(ctx context.Context, input *NewMessage) (*Message, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	if input.RecipientId == userId {
		return nil, errors.New("cannot message yourself")
	}
	if err := utils.ValidateResourceId[User](ctx, businessId, input.RecipientId); err != nil {
		return nil, errors.New("recipient not found")
	}
	if input.Body == "" {
		return nil, errors.New("body is required")
	}

	message := Message{
		BusinessId:  businessId,
		SenderId:    userId,
		RecipientId: input.RecipientId,
		Body:        html.EscapeString(input.Body),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// PaginateConversation lists the two-way thread between the caller and one user.
func PaginateConversation(ctx context.Context, otherUserId int, limit int, after *string) (*MessagesConnection, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userId, otherUserId, otherUserId, userId)

	edges, pageInfo, err := FetchPageCompositeCursor[Message](dbCtx, limit, after, "created_at", "<")
	if err != nil {
		return nil, err
	}
	var connection MessagesConnection
	connection.PageInfo = pageInfo
	for _, edge := range edges {
		messageEdge := MessagesEdge(edge)
		connection.Edges = append(connection.Edges, &messageEdge)
	}
	return &connection, nil
}

// MarkConversationRead stamps every unread message from the given sender.
func MarkConversationRead(ctx context.Context, senderId int) (int64, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return 0, err
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return 0, errors.New("user id is required")
	}

	db := config.GetDB()
	result := db.WithContext(ctx).Model(&Message{}).
		Where("business_id = ? AND sender_id = ? AND recipient_id = ? AND read_at IS NULL",
			businessId, senderId, userId).
		Update("ReadAt", time.Now().UTC())
	return result.RowsAffected, result.Error
}

func GetUnreadMessageCount(ctx context.Context) (int64, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return 0, err
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return 0, errors.New("user id is required")
	}

	db := config.GetDB()
	var count int64
	err = db.WithContext(ctx).Model(&Message{}).
		Where("business_id = ? AND recipient_id = ? AND read_at IS NULL", businessId, userId).
		Count(&count).Error
	return count, err
}
