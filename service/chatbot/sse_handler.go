package chatbot

import (
	"bealive-agent-backend/service/intent"
	"bealive-agent-backend/service/slots"
	"bealive-agent-backend/utils"

	"github.com/gin-gonic/gin"
)

// IntentEvent is the payload of the SSE intent event.
type IntentEvent struct {
	Intent  intent.Intent `json:"intent"`
	Payload slots.Payload `json:"payload"`
}

// GinSSEHandler streams the progress of a turn to the client as server-sent events.
type GinSSEHandler struct {
	Ctx     *gin.Context
	Session string
}

var _ Observer = &GinSSEHandler{}

func NewGinSSEHandler(ctx *gin.Context, session string) *GinSSEHandler {
	return &GinSSEHandler{
		Ctx:     ctx,
		Session: session,
	}
}

func (h *GinSSEHandler) OnIntent(in intent.Intent, payload slots.Payload) {
	utils.SendSSEMessage(h.Ctx, utils.EventIntent, IntentEvent{Intent: in, Payload: payload})
}

// Finish sends the reply and closes the stream.
func (h *GinSSEHandler) Finish(reply Reply) {
	if reply.Err != nil {
		utils.SendSSEMessage(h.Ctx, utils.EventError, string(reply.Err.Kind))
	}
	utils.SendSSEMessage(h.Ctx, utils.EventFinalAnswer, reply.Text)
	utils.SendSSEMessage(h.Ctx, utils.EventDone, "")
}
