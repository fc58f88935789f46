package controller

import (
	"log/slog"
	"net/http"

	"fede-agent-backend/request"
	"fede-agent-backend/response"

	"github.com/gin-gonic/gin"
)

// PatternSuggestions 返回达到学习阈值的候选默认值
func PatternSuggestions(c *gin.Context) {
	patternKey := c.Query("key")
	if patternKey == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	userID := c.GetInt64("user_id")

	patterns, err := learner.Suggestions(userID, patternKey)
	if err != nil {
		slog.Error(ErrGetSuggestions.Error(), "err", err, "pattern_key", patternKey)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetSuggestions.Error(),
		})
		return
	}

	var resp response.GetPatternSuggestionsResponse
	for _, p := range patterns {
		resp.Suggestions = append(resp.Suggestions, response.PatternSuggestion{
			Value:     p.PatternValue,
			Count:     p.OccurrenceCount,
			IsDefault: p.IsConfirmedDefault,
		})
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}

// ConfirmPatternDefault 用户显式批准某个模式取值为默认
func ConfirmPatternDefault(c *gin.Context) {
	var req request.ConfirmPatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	userID := c.GetInt64("user_id")

	if err := learner.ConfirmDefault(userID, req.PatternKey, req.PatternValue); err != nil {
		slog.Error(ErrConfirmPattern.Error(), "err", err, "pattern_key", req.PatternKey)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrConfirmPattern.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}
