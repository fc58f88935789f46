package actions

import (
	"regexp"

	"fede-agent-backend/model"

	"github.com/google/uuid"
)

var (
	calendarKeywords = []string{"meeting", "appointment", "schedule", "book", "calendar"}
	emailKeywords    = []string{"email", "send", "reply", "message"}
	todoKeywords     = []string{"todo", "task", "remind", "remember", "don't forget"}
)

var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`),
		regexp.MustCompile(`(tomorrow|today|next week)`),
		regexp.MustCompile(`(\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec))`),
	}

	timePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{1,2}:\d{2}\s*(?:am|pm)?)`),
		regexp.MustCompile(`(\d{1,2}\s*(?:am|pm))`),
	}

	emailAddressPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// calendarDetector 在日历关键词命中后提取日期与时间记号。
// 日期和时间都找到时置信度 0.7，只找到一类时 0.5。
type calendarDetector struct{}

func (calendarDetector) Trigger(lower string) bool {
	return containsAny(lower, calendarKeywords)
}

func (calendarDetector) Extract(text, lower string, meta *model.ConversationContext) *model.ActionItem {
	var dates, times []string
	for _, p := range datePatterns {
		for _, m := range p.FindAllStringSubmatch(lower, -1) {
			dates = append(dates, m[1])
		}
	}
	for _, p := range timePatterns {
		for _, m := range p.FindAllStringSubmatch(lower, -1) {
			times = append(times, m[1])
		}
	}

	if len(dates) == 0 && len(times) == 0 {
		return nil
	}

	params := model.CalendarParams{
		ExtractedDates: dates,
		ExtractedTimes: times,
		Excerpt:        excerpt(text),
	}
	if meta != nil && meta.OtherPerson != "" {
		params.SuggestedAttendee = meta.OtherPerson
	}

	confidence := 0.5
	if len(dates) > 0 && len(times) > 0 {
		confidence = 0.7
	}

	return &model.ActionItem{
		ID:                   uuid.New().String(),
		Type:                 model.ActionCalendarEvent,
		Params:               params,
		RequiresConfirmation: true,
		Confidence:           confidence,
		Context:              meta,
	}
}

// emailDetector 提取邮箱地址。找到地址时置信度 0.6，
// 仅出现 email 字样时 0.4。
type emailDetector struct{}

func (emailDetector) Trigger(lower string) bool {
	return containsAny(lower, emailKeywords)
}

func (emailDetector) Extract(text, lower string, meta *model.ConversationContext) *model.ActionItem {
	emails := emailAddressPattern.FindAllString(text, -1)

	if len(emails) == 0 && !containsAny(lower, []string{"email"}) {
		return nil
	}

	confidence := 0.4
	if len(emails) > 0 {
		confidence = 0.6
	}

	return &model.ActionItem{
		ID:   uuid.New().String(),
		Type: model.ActionEmail,
		Params: model.EmailParams{
			ExtractedEmails: emails,
			Excerpt:         excerpt(text),
		},
		RequiresConfirmation: true,
		Confidence:           confidence,
		Context:              meta,
	}
}

// todoDetector 关键词命中即产出一条固定置信度 0.5 的待办候选
type todoDetector struct{}

func (todoDetector) Trigger(lower string) bool {
	return containsAny(lower, todoKeywords)
}

func (todoDetector) Extract(text, lower string, meta *model.ConversationContext) *model.ActionItem {
	return &model.ActionItem{
		ID:   uuid.New().String(),
		Type: model.ActionTodo,
		Params: model.TodoParams{
			Excerpt: excerpt(text),
		},
		RequiresConfirmation: true,
		Confidence:           0.5,
		Context:              meta,
	}
}
