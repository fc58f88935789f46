package actions

import (
	"testing"

	"fede-agent-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findByType(items []model.ActionItem, actionType model.ActionType) []model.ActionItem {
	var found []model.ActionItem
	for _, item := range items {
		if item.Type == actionType {
			found = append(found, item)
		}
	}
	return found
}

func TestExtractCalendarEventWithDateAndTime(t *testing.T) {
	e := NewExtractor()

	items := e.ExtractFromAnalysis("Let's have a meeting tomorrow at 3pm")

	calendar := findByType(items, model.ActionCalendarEvent)
	require.Len(t, calendar, 1)

	params, ok := calendar[0].Params.(model.CalendarParams)
	require.True(t, ok)
	assert.Contains(t, params.ExtractedDates, "tomorrow")
	assert.Contains(t, params.ExtractedTimes, "3pm")
	assert.Equal(t, 0.7, calendar[0].Confidence)
	assert.True(t, calendar[0].RequiresConfirmation)
}

func TestExtractCalendarEventDateOnlyLowerConfidence(t *testing.T) {
	e := NewExtractor()

	items := e.ExtractFromAnalysis("Can we schedule something for monday?")

	calendar := findByType(items, model.ActionCalendarEvent)
	require.Len(t, calendar, 1)
	assert.Equal(t, 0.5, calendar[0].Confidence)
}

func TestCalendarKeywordWithoutTokensYieldsNothing(t *testing.T) {
	e := NewExtractor()

	items := e.ExtractFromAnalysis("I love putting things on my calendar")

	assert.Empty(t, findByType(items, model.ActionCalendarEvent))
}

func TestExtractEmailWithAddress(t *testing.T) {
	e := NewExtractor()

	items := e.ExtractFromAnalysis("email john@example.com about the report")

	emails := findByType(items, model.ActionEmail)
	require.Len(t, emails, 1)

	params, ok := emails[0].Params.(model.EmailParams)
	require.True(t, ok)
	assert.Equal(t, []string{"john@example.com"}, params.ExtractedEmails)
	assert.Equal(t, 0.6, emails[0].Confidence)
}

func TestExtractEmailWithoutAddress(t *testing.T) {
	e := NewExtractor()

	items := e.ExtractFromAnalysis("You should write an email later")

	emails := findByType(items, model.ActionEmail)
	require.Len(t, emails, 1)
	assert.Equal(t, 0.4, emails[0].Confidence)
}

func TestSendKeywordWithoutEmailWordYieldsNothing(t *testing.T) {
	e := NewExtractor()

	// 触发词命中但既无地址也无 email 字样
	items := e.ExtractFromAnalysis("send it over when ready")

	assert.Empty(t, findByType(items, model.ActionEmail))
}

func TestExtractTodo(t *testing.T) {
	e := NewExtractor()

	items := e.ExtractFromAnalysis("Remind me to water the plants")

	todos := findByType(items, model.ActionTodo)
	require.Len(t, todos, 1)
	assert.Equal(t, 0.5, todos[0].Confidence)

	params, ok := todos[0].Params.(model.TodoParams)
	require.True(t, ok)
	assert.Contains(t, params.Excerpt, "water the plants")
}

func TestNoKeywordsYieldsEmptyList(t *testing.T) {
	e := NewExtractor()

	items := e.ExtractFromAnalysis("The weather is lovely this afternoon.")

	assert.Empty(t, items)
}

func TestMultipleDetectorsFireIndependently(t *testing.T) {
	e := NewExtractor()

	items := e.ExtractFromAnalysis(
		"Schedule a meeting tomorrow at 3pm, then email john@example.com and don't forget the slides")

	assert.Len(t, findByType(items, model.ActionCalendarEvent), 1)
	assert.Len(t, findByType(items, model.ActionEmail), 1)
	assert.Len(t, findByType(items, model.ActionTodo), 1)
}

func TestExplicitActionBlock(t *testing.T) {
	e := NewExtractor()

	text := "ACTIONABLE ITEMS:\n```json\n{\"action\": \"todo\", \"parameters\": {\"text\": \"buy milk\"}}\n```"
	items := e.ExtractFromAnalysis(text)

	todos := findByType(items, model.ActionTodo)
	require.NotEmpty(t, todos)

	var explicit *model.ActionItem
	for i := range todos {
		if _, ok := todos[i].Params.(model.GenericParams); ok {
			explicit = &todos[i]
		}
	}
	require.NotNil(t, explicit)

	assert.Equal(t, 0.8, explicit.Confidence)
	assert.True(t, explicit.RequiresConfirmation)

	params := explicit.Params.(model.GenericParams)
	assert.Equal(t, "buy milk", params["text"])
}

func TestExplicitBlockOverridesConfidence(t *testing.T) {
	e := NewExtractor()

	text := "Actions to take:\n```json\n{\"type\": \"calendar_event\", \"confidence\": 0.95}\n```"
	items := e.ExtractFromAnalysis(text)

	calendar := findByType(items, model.ActionCalendarEvent)
	require.Len(t, calendar, 1)
	assert.Equal(t, 0.95, calendar[0].Confidence)
}

func TestMalformedExplicitBlockIsSkipped(t *testing.T) {
	e := NewExtractor()

	text := "ACTIONABLE ITEMS:\n" +
		"```json\n{not valid json}\n```\n" +
		"```json\n{\"action\": \"email\"}\n```"
	items := e.ExtractFromAnalysis(text)

	// 非法块跳过，合法块照常产出
	var generic []model.ActionItem
	for _, item := range items {
		if _, ok := item.Params.(model.GenericParams); ok {
			generic = append(generic, item)
		}
	}
	require.Len(t, generic, 1)
	assert.Equal(t, model.ActionEmail, generic[0].Type)
}

func TestExplicitMarkerWithoutBlocksIsHarmless(t *testing.T) {
	e := NewExtractor()

	items := e.ExtractFromAnalysis("ACTIONABLE ITEMS: nothing structured here")

	for _, item := range items {
		_, ok := item.Params.(model.GenericParams)
		assert.False(t, ok)
	}
}

func TestConversationMetadataAttached(t *testing.T) {
	e := NewExtractor()

	text := `CONVERSATION METADATA:
Platform: WhatsApp
Contact name: Maria

PARTICIPANTS:
LEFT side: Maria (the other person)
RIGHT side: the user

Maria suggests a meeting tomorrow at 3pm.`

	items := e.ExtractFromAnalysis(text)

	calendar := findByType(items, model.ActionCalendarEvent)
	require.Len(t, calendar, 1)

	require.NotNil(t, calendar[0].Context)
	assert.Equal(t, "Maria", calendar[0].Context.ContactName)
	assert.Equal(t, "Maria", calendar[0].Context.OtherPerson)
	assert.Equal(t, "WhatsApp", calendar[0].Context.Platform)

	params := calendar[0].Params.(model.CalendarParams)
	assert.Equal(t, "Maria", params.SuggestedAttendee)
}

func TestMissingMetadataLabelsYieldNoContext(t *testing.T) {
	e := NewExtractor()

	items := e.ExtractFromAnalysis("Remind me to call mom")

	todos := findByType(items, model.ActionTodo)
	require.Len(t, todos, 1)
	assert.Nil(t, todos[0].Context)
}

func TestExtractionIsDeterministic(t *testing.T) {
	e := NewExtractor()
	text := "Schedule a meeting tomorrow at 3pm and email john@example.com"

	first := e.ExtractFromAnalysis(text)
	second := e.ExtractFromAnalysis(text)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Type, second[i].Type)
		assert.Equal(t, first[i].Params, second[i].Params)
		assert.Equal(t, first[i].Confidence, second[i].Confidence)
	}
}

func TestExcerptIsBounded(t *testing.T) {
	e := NewExtractor()

	long := "remind me about this: "
	for len(long) < 2000 {
		long += "very important detail, "
	}

	items := e.ExtractFromAnalysis(long)
	todos := findByType(items, model.ActionTodo)
	require.Len(t, todos, 1)

	params := todos[0].Params.(model.TodoParams)
	assert.LessOrEqual(t, len([]rune(params.Excerpt)), 500)
}
