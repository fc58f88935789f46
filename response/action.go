package response

// ActionCandidate 待确认的动作候选及其展示提示
type ActionCandidate struct {
	ID                   string  `json:"id"`
	Type                 string  `json:"action_type"`
	Parameters           any     `json:"parameters"`
	RequiresConfirmation bool    `json:"requires_confirmation"`
	Confidence           float64 `json:"confidence"`
	Prompt               string  `json:"prompt"`
}

type ImageAnalysisResponse struct {
	Analysis string            `json:"analysis"`
	Actions  []ActionCandidate `json:"actions,omitempty"`
}

type PatternSuggestion struct {
	Value     string `json:"value"`
	Count     int    `json:"count"`
	IsDefault bool   `json:"is_default"`
}

type GetPatternSuggestionsResponse struct {
	Suggestions []PatternSuggestion `json:"suggestions"`
}
