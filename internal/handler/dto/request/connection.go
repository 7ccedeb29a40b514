package request

type RegisterConnectionRequest struct {
	ConnectionID string `json:"connection_id" binding:"required"`
}
