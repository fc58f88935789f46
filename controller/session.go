package controller

import (
	"log/slog"
	"net/http"

	"fede-agent-backend/config"
	"fede-agent-backend/dao"
	"fede-agent-backend/request"
	"fede-agent-backend/response"

	"github.com/gin-gonic/gin"
)

// 状态汇报使用比常规回合更大的历史窗口
const statusHistoryLimit = 100

// NewSession 开启全新对话：先结束当前会话（若有），再建新会话
func NewSession(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if current := sessions.Current(userID); current != nil {
		if err := sessions.End(userID, current.SessionID); err != nil {
			slog.Error(ErrEndSession.Error(), "err", err, "session_id", current.SessionID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
				Msg: ErrEndSession.Error(),
			})
			return
		}
	}

	snapshot, err := sessions.GetOrCreate(userID)
	if err != nil {
		slog.Error(ErrResolveSession.Error(), "err", err, "user_id", userID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrResolveSession.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Data: response.SessionResponse{
			SessionID: snapshot.SessionID,
		},
	})
}

// EndSession 结束当前会话。消息记录保留。
func EndSession(c *gin.Context) {
	userID := c.GetInt64("user_id")

	current := sessions.Current(userID)
	if current == nil {
		c.JSON(http.StatusOK, response.Response{
			Msg: "no active conversation to end",
		})
		return
	}

	if err := sessions.End(userID, current.SessionID); err != nil {
		slog.Error(ErrEndSession.Error(), "err", err, "session_id", current.SessionID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrEndSession.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}

// SessionStatus 返回当前会话的概要信息
func SessionStatus(c *gin.Context) {
	userID := c.GetInt64("user_id")

	current := sessions.Current(userID)
	if current == nil {
		c.JSON(http.StatusOK, response.Response{
			Msg: "no active session",
		})
		return
	}

	messages, err := dao.GetMessages(current.SessionID, statusHistoryLimit)
	if err != nil {
		slog.Error(ErrGetSessionStatus.Error(), "err", err, "session_id", current.SessionID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetSessionStatus.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.SessionStatusResponse{
			SessionID:    current.SessionID,
			MessageCount: len(messages),
			Model:        config.Cfg.Model.Name,
		},
	})
}

// SessionMessages 返回当前会话的近期消息记录
func SessionMessages(c *gin.Context) {
	userID := c.GetInt64("user_id")

	current := sessions.Current(userID)
	if current == nil {
		c.JSON(http.StatusOK, response.Response{
			Msg: "no active session",
		})
		return
	}

	messages, err := dao.GetMessages(current.SessionID, statusHistoryLimit)
	if err != nil {
		slog.Error(ErrGetSessionMessages.Error(), "err", err, "session_id", current.SessionID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetSessionMessages.Error(),
		})
		return
	}

	var resp response.GetSessionMessagesResponse
	for _, m := range messages {
		resp.Messages = append(resp.Messages, response.MessageResponse{
			CreatedAt: m.CreatedAt,
			Role:      m.Role,
			Content:   m.Content,
		})
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}

// UpdateSessionContext 整体替换当前会话上下文
func UpdateSessionContext(c *gin.Context) {
	var req request.UpdateContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	userID := c.GetInt64("user_id")

	current := sessions.Current(userID)
	if current == nil {
		c.JSON(http.StatusOK, response.Response{
			Msg: "no active session",
		})
		return
	}

	if err := sessions.UpdateContext(userID, current.SessionID, req.Context); err != nil {
		slog.Error(ErrUpdateContext.Error(), "err", err, "session_id", current.SessionID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrUpdateContext.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}
