package controller

import (
	"context"
	"log/slog"

	"fede-agent-backend/request"
	"fede-agent-backend/response"
	"fede-agent-backend/service/chat"
	"fede-agent-backend/utils"

	"github.com/gin-gonic/gin"
)

// AssistantChat 处理一轮文本对话，SSE 流式返回。
// 回合结束后对最终答案做动作提取，候选作为单独事件推送。
func AssistantChat(c *gin.Context) {
	utils.SetSSEHeaders(c)

	var req request.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		utils.SendSSEMessage(c, utils.EventError, ErrParseRequest.Error())
		utils.SendSSEMessage(c, utils.EventDone, "")
		return
	}

	userID := c.GetInt64("user_id")

	snapshot, err := sessions.GetOrCreate(userID)
	if err != nil {
		slog.Error(ErrResolveSession.Error(), "err", err, "user_id", userID)
		utils.SendSSEMessage(c, utils.EventError, ErrResolveSession.Error())
		utils.SendSSEMessage(c, utils.EventDone, "")
		return
	}

	rememberUserName(userID, snapshot.SessionID, snapshot.Context, req.UserName)

	handler := chat.NewStreamHandler(c)
	assistant, err := chat.NewAssistant(snapshot.SessionID, snapshot.Context, handler)
	if err != nil {
		slog.Error(ErrCreateAssistant.Error(), "err", err)
		utils.SendSSEMessage(c, utils.EventError, ErrCreateAssistant.Error())
		utils.SendSSEMessage(c, utils.EventDone, "")
		return
	}
	defer assistant.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// 监听客户端的取消信号
	go func() {
		<-c.Done()
		cancel()
	}()

	answer, err := assistant.Call(ctx, req.Query)
	if err != nil {
		// 失败不自动重试，前端向用户展示通用致歉
		slog.Error(ErrCallAssistant.Error(), "err", err)
		utils.SendSSEMessage(c, utils.EventError, ErrCallAssistant.Error())
		utils.SendSSEMessage(c, utils.EventDone, "")
		return
	}

	if candidates := collectCandidates(userID, answer); len(candidates) > 0 {
		utils.SendSSEMessage(c, utils.EventActions, candidates)
	}

	utils.SendSSEMessage(c, utils.EventDone, "")
}

// rememberUserName 首次见到用户称呼时写入会话上下文
func rememberUserName(userID int64, sessionID uint, sessionCtx map[string]any, userName string) {
	if userName == "" {
		return
	}
	if _, ok := sessionCtx["user_name"]; ok {
		return
	}

	sessionCtx["user_name"] = userName
	if err := sessions.UpdateContext(userID, sessionID, sessionCtx); err != nil {
		slog.Error(ErrUpdateContext.Error(), "err", err, "session_id", sessionID)
	}
}

// collectCandidates 提取动作候选、登记待确认并渲染展示提示
func collectCandidates(userID int64, analysis string) []response.ActionCandidate {
	items := extractor.ExtractFromAnalysis(analysis)
	if len(items) == 0 {
		return nil
	}

	pending.Park(userID, items)

	candidates := make([]response.ActionCandidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, response.ActionCandidate{
			ID:                   item.ID,
			Type:                 string(item.Type),
			Parameters:           item.Params,
			RequiresConfirmation: item.RequiresConfirmation,
			Confidence:           item.Confidence,
			Prompt:               actionsPrompt(item),
		})
	}
	return candidates
}
