package controller

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"fede-agent-backend/dao"
	"fede-agent-backend/model"
	"fede-agent-backend/response"
	"fede-agent-backend/service/chat"

	"github.com/gin-gonic/gin"
)

const defaultMediaType = "image/jpeg"

// AnalyzeImage 接收截图并做视觉分析：历史中只保留文本占位与分析结果，
// 图像本身不落库。分析文本随后送入动作提取。
func AnalyzeImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		slog.Error(ErrGetImageFile.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrGetImageFile.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error(ErrGetImageFile.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrGetImageFile.Error(),
		})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		slog.Error(ErrGetImageFile.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrGetImageFile.Error(),
		})
		return
	}

	mediaType := fileHeader.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = defaultMediaType
	}

	caption := c.PostForm("caption")
	userID := c.GetInt64("user_id")

	snapshot, err := sessions.GetOrCreate(userID)
	if err != nil {
		slog.Error(ErrResolveSession.Error(), "err", err, "user_id", userID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrResolveSession.Error(),
		})
		return
	}

	prompt := chat.SelectImagePrompt(caption)

	analysis, err := chat.AnalyzeImage(c.Request.Context(), imageData, mediaType, prompt, snapshot.Context)
	if err != nil {
		slog.Error(ErrAnalyzeImage.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrAnalyzeImage.Error(),
		})
		return
	}

	// 历史中以占位文本代表图片本身
	placeholder := fmt.Sprintf("[Image uploaded] %s", caption)
	if err := dao.AddMessage(snapshot.SessionID, model.RoleUser, placeholder); err != nil {
		slog.Error(ErrResolveSession.Error(), "err", err, "session_id", snapshot.SessionID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrResolveSession.Error(),
		})
		return
	}
	if err := dao.AddMessage(snapshot.SessionID, model.RoleAssistant, analysis); err != nil {
		slog.Error(ErrResolveSession.Error(), "err", err, "session_id", snapshot.SessionID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrResolveSession.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.ImageAnalysisResponse{
			Analysis: analysis,
			Actions:  collectCandidates(userID, analysis),
		},
	})
}
