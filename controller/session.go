package controller

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/middleware"
	"bealive-agent-backend/model"
	"bealive-agent-backend/request"
	"bealive-agent-backend/response"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func CreateSession(c *gin.Context) {
	session := model.Session{
		UserID:    middleware.UserID(c),
		SessionID: uuid.New().String(),
		Title:     model.DefaultSessionTitle,
	}
	if err := dao.CreateSession(c.Request.Context(), &session); err != nil {
		slog.Error(ErrCreateSession.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrCreateSession.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Data: response.SessionResponse{
			SessionID: session.SessionID,
			Title:     session.Title,
		},
	})
}

func GetSessions(c *gin.Context) {
	sessions, err := dao.GetSessionsByUserID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		slog.Error(ErrGetSessions.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetSessions.Error(),
		})
		return
	}

	resp := response.GetSessionsResponse{Sessions: []response.SessionResponse{}}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, response.SessionResponse{
			SessionID: s.SessionID,
			Title:     s.Title,
		})
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}

// DeleteSession removes the session, its message log and its conversation memory.
func DeleteSession(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)
	sessionID := c.Param("id")
	if err := dao.DeleteSession(ctx, userID, sessionID); err != nil {
		slog.Error(ErrDeleteSession.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteSession.Error(),
		})
		return
	}
	if err := services.Bot.Forget(ctx, userID, sessionID); err != nil {
		slog.Warn("failed to forget session memory", "session_id", sessionID, "err", err)
	}

	c.JSON(http.StatusOK, response.Response{})
}

func GetSessionMessages(c *gin.Context) {
	messages, err := dao.GetMessagesBySessionID(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		slog.Error(ErrGetSessionMessages.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetSessionMessages.Error(),
		})
		return
	}

	resp := response.GetSessionMessagesResponse{Messages: []response.MessageResponse{}}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, response.MessageResponse{
			CreatedAt: m.CreatedAt,
			Role:      m.Role,
			Content:   m.Content,
			Intent:    m.Intent,
			Payload:   json.RawMessage(m.Payload),
			ErrorKind: m.ErrorKind,
		})
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}

func UpdateSessionTitle(c *gin.Context) {
	var req request.UpdateSessionTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	if err := dao.UpdateSessionTitle(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Title); err != nil {
		slog.Error(ErrUpdateSessionTitle.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrUpdateSessionTitle.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}

// ClearSessionMemory empties the conversation window and summary; the message log is kept.
func ClearSessionMemory(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)
	sessionID := c.Param("id")

	ok, err := dao.SessionExists(ctx, userID, sessionID)
	if err != nil {
		slog.Error(ErrClearSessionMemory.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrClearSessionMemory.Error(),
		})
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
			Msg: ErrSessionNotFound.Error(),
		})
		return
	}

	if err := services.Bot.Clear(ctx, userID, sessionID); err != nil {
		slog.Error(ErrClearSessionMemory.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrClearSessionMemory.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}
