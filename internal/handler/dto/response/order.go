package response

import (
	"tableside/internal/usecase/queries"
)

type GatewayPaymentResponse struct {
	RedirectURL string               `json:"redirect_url"`
	Orders      []*queries.OrderView `json:"orders"`
}

// CallbackAck mirrors the gateway's acknowledgement contract.
type CallbackAck struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
}
