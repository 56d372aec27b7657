package dto

type SendMessageInput struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

type MessageFilter struct {
	Page  int `form:"page"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
