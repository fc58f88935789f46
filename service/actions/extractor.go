// Package actions 将模型的自由文本输出解析为结构化、
// 可供用户确认的动作候选。无状态，除日志外无副作用。
package actions

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"fede-agent-backend/model"

	"github.com/google/uuid"
)

const (
	// 摘录长度上限（字符数），用于审计展示
	excerptLimit = 500

	// 显式动作块缺省置信度
	explicitConfidence = 0.8
)

var explicitMarkers = []string{"ACTIONABLE ITEMS:", "Actions to take:"}

// Detector 独立的动作探测器，触发与提取分离。
// 多个探测器可以对同一段文本同时命中，提取器不是单标签分类器。
type Detector interface {
	Trigger(lower string) bool
	Extract(text, lower string, meta *model.ConversationContext) *model.ActionItem
}

type Extractor struct {
	detectors []Detector
}

func NewExtractor() *Extractor {
	return &Extractor{
		detectors: []Detector{
			calendarDetector{},
			emailDetector{},
			todoDetector{},
		},
	}
}

// ExtractFromAnalysis 对良构字符串输入永不报错：
// 显式块逐个解析失败即跳过，没有触发词时返回空列表。
func (e *Extractor) ExtractFromAnalysis(text string) []model.ActionItem {
	meta := extractConversationContext(text)

	var items []model.ActionItem

	// 显式路径与隐式探测相互独立，两者都会运行
	if hasExplicitMarker(text) {
		items = append(items, parseExplicitActions(text, meta)...)
	}

	lower := strings.ToLower(text)
	for _, d := range e.detectors {
		if !d.Trigger(lower) {
			continue
		}
		if item := d.Extract(text, lower, meta); item != nil {
			items = append(items, *item)
		}
	}

	return items
}

func hasExplicitMarker(text string) bool {
	for _, marker := range explicitMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

var (
	contactPattern      = regexp.MustCompile(`(?i)Contact name[:\s]+([^\n]+)`)
	leftSidePattern     = regexp.MustCompile(`LEFT side[:\s]+=?\s*([^\n(]+)`)
	platformPattern     = regexp.MustCompile(`(?i)(?:App/Platform|Platform)[:\s]+([^\n]+)`)
	explicitJSONPattern = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
)

// extractConversationContext 扫描带标签的段落提取会话元信息。
// 标签缺失仅意味着对应字段缺失，绝不是错误。
func extractConversationContext(text string) *model.ConversationContext {
	meta := &model.ConversationContext{}

	if m := contactPattern.FindStringSubmatch(text); m != nil {
		meta.ContactName = strings.TrimSpace(m[1])
	}

	if _, after, found := strings.Cut(text, "PARTICIPANTS:"); found {
		section, _, _ := strings.Cut(after, "\n\n")
		if m := leftSidePattern.FindStringSubmatch(section); m != nil {
			meta.OtherPerson = strings.TrimSpace(m[1])
		}
	}

	if m := platformPattern.FindStringSubmatch(text); m != nil {
		meta.Platform = strings.TrimSpace(m[1])
	}

	if meta.ContactName == "" && meta.OtherPerson == "" && meta.Platform == "" {
		return nil
	}
	return meta
}

type explicitAction struct {
	Action               string         `json:"action"`
	Type                 string         `json:"type"`
	Parameters           map[string]any `json:"parameters"`
	RequiresConfirmation *bool          `json:"requires_confirmation"`
	Confidence           *float64       `json:"confidence"`
}

// parseExplicitActions 解析 json 围栏块形式的显式动作。
// 非法块单独跳过并记录日志，不中断整体提取。
func parseExplicitActions(text string, meta *model.ConversationContext) []model.ActionItem {
	var items []model.ActionItem

	for _, m := range explicitJSONPattern.FindAllStringSubmatch(text, -1) {
		var parsed explicitAction
		if err := json.Unmarshal([]byte(m[1]), &parsed); err != nil {
			slog.Debug("Could not parse explicit action block", "err", err)
			continue
		}

		actionType := parsed.Action
		if actionType == "" {
			actionType = parsed.Type
		}
		if actionType == "" {
			continue
		}

		params := parsed.Parameters
		if params == nil {
			params = map[string]any{}
		}

		item := model.ActionItem{
			ID:                   uuid.New().String(),
			Type:                 model.ActionType(actionType),
			Params:               model.GenericParams(params),
			RequiresConfirmation: true,
			Confidence:           explicitConfidence,
			Context:              meta,
		}
		if parsed.RequiresConfirmation != nil {
			item.RequiresConfirmation = *parsed.RequiresConfirmation
		}
		if parsed.Confidence != nil {
			item.Confidence = *parsed.Confidence
		}

		items = append(items, item)
	}

	return items
}

// excerpt 截取原文前 excerptLimit 个字符
func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) > excerptLimit {
		return string(runes[:excerptLimit])
	}
	return text
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
