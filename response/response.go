package response

// Response is the envelope of every JSON reply.
type Response struct {
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}
