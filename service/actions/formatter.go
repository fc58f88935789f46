package actions

import (
	"fmt"
	"strings"

	"fede-agent-backend/model"
)

// FormatForConfirmation 渲染动作候选的确认提示：
// 先列出仍然缺失的必填项，最后以明确的是/否问句收尾。
// 未知动作类型回退为一行描述，永不失败。
func FormatForConfirmation(action model.ActionItem) string {
	switch params := action.Params.(type) {
	case model.CalendarParams:
		return formatCalendar(action, params)
	case model.EmailParams:
		return formatEmail(params)
	case model.TodoParams:
		return formatTodo()
	default:
		return fmt.Sprintf("Action detected: %s", action.Type)
	}
}

func formatCalendar(action model.ActionItem, params model.CalendarParams) string {
	var b strings.Builder

	b.WriteString("📅 **Calendar Event Detected**\n")
	b.WriteString("Dates mentioned: " + joinOrNone(params.ExtractedDates) + "\n")
	b.WriteString("Times mentioned: " + joinOrNone(params.ExtractedTimes))

	if params.SuggestedAttendee != "" {
		b.WriteString(fmt.Sprintf("\nSuggested attendee: **%s** (from conversation)", params.SuggestedAttendee))
	}
	if action.Context != nil && action.Context.Platform != "" {
		b.WriteString(fmt.Sprintf("\nSource: %s conversation", action.Context.Platform))
	}

	b.WriteString(`

To create this event, I need:
- Event title
- Exact date and time
- Duration
- Location (optional)
- Attendees (optional)

Should I help you create this calendar event?`)

	return b.String()
}

func formatEmail(params model.EmailParams) string {
	return fmt.Sprintf(`✉️ **Email Action Detected**
Email addresses found: %s

To send this email, I need:
- Recipient email address
- Subject
- Message body

Should I help you draft this email?`, joinOrNone(params.ExtractedEmails))
}

func formatTodo() string {
	return `✅ **Todo/Reminder Detected**

To add this task, I need:
- Task description
- Due date (optional)
- Priority (optional)

Should I add this to your todo list?`
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "None found"
	}
	return strings.Join(values, ", ")
}
