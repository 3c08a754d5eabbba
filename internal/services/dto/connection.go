package dto

type CreateConnectionRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required,uuid"`
	Message    string `json:"message" validate:"max=1000"`
}

type ConnectionListRequest struct {
	Direction string `form:"direction" validate:"omitempty,oneof=sent received"`
	Status    string `form:"status" validate:"omitempty,oneof=pending accepted rejected cancelled"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}
