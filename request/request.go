package request

type ChatRequest struct {
	Query string `json:"query" binding:"required"`

	// 前端已知的用户称呼，首次出现时写入会话上下文
	UserName string `json:"user_name"`
}

type ConfirmActionRequest struct {
	ActionID string `json:"action_id" binding:"required"`
	Approved bool   `json:"approved"`
}

type UpdateContextRequest struct {
	Context map[string]any `json:"context" binding:"required"`
}

type ConfirmPatternRequest struct {
	PatternKey   string `json:"pattern_key" binding:"required"`
	PatternValue string `json:"pattern_value" binding:"required"`
}
