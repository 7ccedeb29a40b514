package request

type CreateTableRequest struct {
	Number   int64  `json:"number" binding:"required"`
	Capacity int32  `json:"capacity" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

type UpdateTableRequest struct {
	Capacity    int32  `json:"capacity" binding:"required"`
	Status      string `json:"status" binding:"required"`
	ChangeToken bool   `json:"change_token"`
}
