package controller

import (
	"bealive-agent-backend/middleware"
	"bealive-agent-backend/request"
	"bealive-agent-backend/response"
	"bealive-agent-backend/service/activity"
	"bealive-agent-backend/service/extract"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateActivity publishes an activity hosted by the caller from a free-text form.
func CreateActivity(c *gin.Context) {
	var req request.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	a, err := services.Activities.CreateActivity(c.Request.Context(), middleware.UserID(c), req.Form)
	if err != nil {
		if isInvalidForm(err) {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
				Msg: err.Error(),
			})
			return
		}
		slog.Error(ErrCreateActivity.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrCreateActivity.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Data: response.ActivityResponse{
			ActivityID:      a.ActivityID,
			Name:            a.ActivityName,
			Description:     a.ActivityDescription,
			Location:        a.Location,
			City:            a.City,
			MaxParticipants: a.MaxParticipants,
			DateBegin:       a.DateBegin,
			DateFinish:      a.DateFinish,
			State:           string(a.ActivityState),
		},
	})
}

func GetPendingReservations(c *gin.Context) {
	text, err := services.Activities.PendingReservations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		slog.Error(ErrGetPendingReservations.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetPendingReservations.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.PendingResponse{Text: text},
	})
}

func GetPendingReviews(c *gin.Context) {
	text, err := services.Activities.PendingReviews(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		slog.Error(ErrGetPendingReviews.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetPendingReviews.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.PendingResponse{Text: text},
	})
}

// isInvalidForm reports whether err is the host's fault rather than the server's.
func isInvalidForm(err error) bool {
	switch {
	case errors.Is(err, activity.ErrInvalidCapacity),
		errors.Is(err, activity.ErrInvalidSchedule),
		errors.Is(err, activity.ErrInPast),
		errors.Is(err, activity.ErrDescriptionTooLong),
		errors.Is(err, extract.ErrInvalidOutput),
		errors.Is(err, extract.ErrMalformedOutput):
		return true
	}
	return false
}
