package chat

import (
	"context"
	"strings"

	"fede-agent-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/tmc/langchaingo/callbacks"
)

const (
	// 跨 chunk 识别前缀时缓冲区保留的 rune 数
	prefixBufferMaxKeep = 10

	// 最终答案的前缀
	finalAnswerPrefix = "AI:"
)

// StreamHandler 基于 Gin 的回调处理器，
// 把 Agent 的思考过程与最终答案作为不同的 SSE 事件推送
type StreamHandler struct {
	callbacks.SimpleHandler

	Ctx *gin.Context

	// Agent 的最终答案，回合结束后用于动作提取
	FinalAnswer *strings.Builder

	// 缓冲区，用于跨 chunk 识别最终答案的前缀
	prefixBuffer *strings.Builder

	hasFinalAnswer bool
}

var _ callbacks.Handler = &StreamHandler{}

func NewStreamHandler(ctx *gin.Context) *StreamHandler {
	return &StreamHandler{
		Ctx:          ctx,
		FinalAnswer:  &strings.Builder{},
		prefixBuffer: &strings.Builder{},
	}
}

func (h *StreamHandler) HandleStreamingFunc(_ context.Context, chunk []byte) {
	text := string(chunk)

	if h.hasFinalAnswer {
		h.FinalAnswer.WriteString(text)
		utils.SendSSEMessage(h.Ctx, utils.EventAnswer, text)
		return
	}

	h.prefixBuffer.WriteString(text)
	bufferStr := h.prefixBuffer.String()

	if idx := strings.Index(bufferStr, finalAnswerPrefix); idx != -1 {
		// 前缀之前是思考内容
		if before := bufferStr[:idx]; len(before) > 0 {
			utils.SendSSEMessage(h.Ctx, utils.EventThinking, before)
		}

		// 前缀之后是最终答案
		if after := bufferStr[idx+len(finalAnswerPrefix):]; len(after) > 0 {
			h.FinalAnswer.WriteString(after)
			utils.SendSSEMessage(h.Ctx, utils.EventAnswer, after)
		}

		h.prefixBuffer.Reset()
		h.hasFinalAnswer = true
		return
	}

	// 保留末尾 prefixBufferMaxKeep 个 rune，其余作为思考内容刷出，
	// 防止缓冲区无限增长
	runes := []rune(bufferStr)
	if len(runes) > prefixBufferMaxKeep {
		flushed := string(runes[:len(runes)-prefixBufferMaxKeep])
		utils.SendSSEMessage(h.Ctx, utils.EventThinking, flushed)

		remaining := string(runes[len(runes)-prefixBufferMaxKeep:])
		h.prefixBuffer.Reset()
		h.prefixBuffer.WriteString(remaining)
	}
}

func (h *StreamHandler) HandleToolEnd(_ context.Context, result string) {
	utils.SendSSEMessage(h.Ctx, utils.EventToolResult, result)
}
