package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"fede-agent-backend/model"
	"fede-agent-backend/request"
	"fede-agent-backend/response"
	"fede-agent-backend/service/actions"

	"github.com/gin-gonic/gin"
)

// ConfirmAction 处理用户对动作候选的答复。
// 同意时签发确认凭据并投喂模式学习；拒绝时直接丢弃。
// 没有任何路径可以绕过这一步触达执行。
func ConfirmAction(c *gin.Context) {
	var req request.ConfirmActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	userID := c.GetInt64("user_id")

	if !req.Approved {
		pending.Discard(userID, req.ActionID)
		c.JSON(http.StatusOK, response.Response{
			Msg: "action discarded",
		})
		return
	}

	confirmation, err := pending.Confirm(userID, req.ActionID)
	if err != nil {
		if errors.Is(err, actions.ErrActionNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
				Msg: actions.ErrActionNotFound.Error(),
			})
			return
		}
		slog.Error(ErrConfirmAction.Error(), "err", err, "action_id", req.ActionID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrConfirmAction.Error(),
		})
		return
	}

	learner.RecordConfirmed(confirmation)

	slog.Info("Action confirmed",
		"user_id", userID,
		"action_id", confirmation.ActionID,
		"action_type", confirmation.Action.Type)

	c.JSON(http.StatusOK, response.Response{
		Msg: "action confirmed",
	})
}

func actionsPrompt(item model.ActionItem) string {
	return actions.FormatForConfirmation(item)
}
