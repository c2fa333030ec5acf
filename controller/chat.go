package controller

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/middleware"
	"bealive-agent-backend/request"
	"bealive-agent-backend/service/chatbot"
	"bealive-agent-backend/utils"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// Chat runs one conversational turn and streams its progress as server-sent events.
func Chat(c *gin.Context) {
	utils.SetSSEHeaders(c)

	var req request.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		utils.SendSSEMessage(c, utils.EventError, ErrParseRequest.Error())
		utils.SendSSEMessage(c, utils.EventDone, "")
		return
	}

	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	ok, err := dao.SessionExists(ctx, userID, req.SessionID)
	if err != nil || !ok {
		if err != nil {
			slog.Error(ErrSessionNotFound.Error(), "err", err)
		}
		utils.SendSSEMessage(c, utils.EventError, ErrSessionNotFound.Error())
		utils.SendSSEMessage(c, utils.EventDone, "")
		return
	}

	handler := chatbot.NewGinSSEHandler(c, req.SessionID)
	reply := services.Bot.Respond(ctx, chatbot.Request{
		UserID:    userID,
		SessionID: req.SessionID,
		Utterance: req.Query,
		Observer:  handler,
	})
	handler.Finish(reply)
}
