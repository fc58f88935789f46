package controller

import "errors"

var (
	ErrParseRequest = errors.New("failed to parse request")

	ErrResolveSession     = errors.New("failed to resolve session")
	ErrEndSession         = errors.New("failed to end session")
	ErrGetSessionStatus   = errors.New("failed to get session status")
	ErrGetSessionMessages = errors.New("failed to get session messages")
	ErrUpdateContext      = errors.New("failed to update session context")

	ErrCreateAssistant = errors.New("failed to create assistant")
	ErrCallAssistant   = errors.New("error while calling assistant")

	ErrGetImageFile = errors.New("failed to get image file")
	ErrAnalyzeImage = errors.New("failed to analyze image")

	ErrConfirmAction = errors.New("failed to confirm action")

	ErrGetSuggestions = errors.New("failed to get pattern suggestions")
	ErrConfirmPattern = errors.New("failed to confirm pattern default")
)
