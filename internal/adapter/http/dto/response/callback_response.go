package response

// CallbackAck is the fixed body the gateway needs to stop redelivering.
type CallbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

func AcceptedCallback() CallbackAck {
	return CallbackAck{ResultCode: 0, ResultDesc: "Accepted"}
}
