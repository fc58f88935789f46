package model

// ActionType 动作类别标签，保持开放集合
type ActionType string

const (
	ActionCalendarEvent ActionType = "calendar_event"
	ActionEmail         ActionType = "email"
	ActionTodo          ActionType = "todo"
)

// ActionItem 从模型输出中提取的待确认动作候选，不落库
type ActionItem struct {
	// 候选标识，用于确认回执的关联
	ID string `json:"id"`

	Type   ActionType   `json:"action_type"`
	Params ActionParams `json:"parameters"`

	// 永远默认 true，系统不允许未确认执行
	RequiresConfirmation bool `json:"requires_confirmation"`

	// 提取置信度 [0.0, 1.0]，仅用于展示排序，绝不用于自动批准
	Confidence float64 `json:"confidence"`

	Context *ConversationContext `json:"context,omitempty"`
}

// ConversationContext 从分析文本中提取的会话元信息
type ConversationContext struct {
	ContactName string `json:"contact_name,omitempty"`
	OtherPerson string `json:"other_person,omitempty"`
	Platform    string `json:"platform,omitempty"`
}

// ActionParams 各动作类别的参数变体
type ActionParams interface {
	isActionParams()
}

type CalendarParams struct {
	ExtractedDates []string `json:"extracted_dates"`
	ExtractedTimes []string `json:"extracted_times"`

	// 来自会话元信息的对方姓名
	SuggestedAttendee string `json:"suggested_attendee,omitempty"`

	// 原文摘录，最多 500 字符，用于展示与审计
	Excerpt string `json:"original_text"`
}

type EmailParams struct {
	ExtractedEmails []string `json:"extracted_emails"`
	Excerpt         string   `json:"original_text"`
}

type TodoParams struct {
	Excerpt string `json:"original_text"`
}

// GenericParams 显式动作块自带的参数，类型未知时原样保留
type GenericParams map[string]any

func (CalendarParams) isActionParams() {}
func (EmailParams) isActionParams()    {}
func (TodoParams) isActionParams()     {}
func (GenericParams) isActionParams()  {}
