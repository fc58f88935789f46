// Package chat 封装对 AI 后端的全部访问：
// 会话式 Agent 调用、截图分析、历史记忆的装配。
package chat

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fede-agent-backend/config"
	"fede-agent-backend/utils"

	mcpadapter "github.com/i2y/langchaingo-mcp-adapter"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/tools"
)

const defaultMaxIterations = 5

var (
	// 配置 300s 超时时间处理 LLM 流式输出
	assistantHTTPClient *http.Client = utils.NewHTTPClient(
		utils.WithTimeout(300 * time.Second),
	)

	mcpHTTPClient *http.Client = utils.DefaultHTTPClient()
)

var (
	//go:embed prompts/system_prefix.txt
	systemPrefix string

	//go:embed prompts/conversation_analysis.txt
	conversationAnalysisPrompt string

	//go:embed prompts/general_image.txt
	generalImagePrompt string
)

// Assistant 一次对话回合的执行体。每回合构建一次，
// 用后关闭（MCP 连接随之释放）。
type Assistant struct {
	Executor    *agents.Executor
	ChatHistory *SessionChatHistory

	mcpClients []*client.Client
}

// NewAssistant 装配 LLM、可选的 MCP 工具与存储后端的对话记忆。
// userContext 为会话上下文映射，渲染进系统前缀。
func NewAssistant(sessionID uint, userContext map[string]any, handler *StreamHandler) (*Assistant, error) {
	llm, err := openai.New(
		openai.WithModel(config.Cfg.Model.Name),
		openai.WithToken(config.Cfg.Model.APIKey),
		openai.WithBaseURL(config.Cfg.Model.BaseURL),
		openai.WithHTTPClient(assistantHTTPClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %v", err)
	}

	mcpClients, mcpTools := collectMCPTools()

	var opts []agents.Option
	opts = append(opts,
		agents.WithPromptPrefix(renderSystemPrefix(userContext)),
	)
	if handler != nil {
		opts = append(opts, agents.WithCallbacksHandler(handler))
	}

	a := agents.NewConversationalAgent(llm, mcpTools, opts...)

	chatHistory := NewSessionChatHistory(sessionID)
	mem := memory.NewConversationBuffer(
		memory.WithChatHistory(chatHistory),
	)

	executor := agents.NewExecutor(
		a,
		agents.WithMemory(mem),
		agents.WithMaxIterations(defaultMaxIterations),
	)

	return &Assistant{
		Executor:    executor,
		ChatHistory: chatHistory,
		mcpClients:  mcpClients,
	}, nil
}

// Call 执行一轮对话。失败原样上抛，调用方负责对用户的通用致歉，
// 本层绝不自动重试。
func (a *Assistant) Call(ctx context.Context, query string) (string, error) {
	result, err := chains.Run(ctx, a.Executor, query)
	if err != nil {
		return "", err
	}
	return result, nil
}

func (a *Assistant) Close() {
	for _, c := range a.mcpClients {
		if err := c.Close(); err != nil {
			slog.Warn("Failed to close mcp client", "err", err)
		}
	}
}

// collectMCPTools 连接启用的 MCP 服务端并收集工具。
// 单个服务端失败只降级为无该组工具，不阻断对话。
func collectMCPTools() ([]*client.Client, []tools.Tool) {
	servers := map[string]config.MCPServerConfig{
		"gmail":    config.Cfg.MCP.Gmail,
		"calendar": config.Cfg.MCP.Calendar,
	}

	var clients []*client.Client
	var allTools []tools.Tool

	for name, server := range servers {
		if !server.Enabled {
			continue
		}

		mcpClient, mcpTools, err := connectMCPServer(server)
		if err != nil {
			slog.Error("Failed to connect mcp server", "server", name, "err", err)
			continue
		}

		clients = append(clients, mcpClient)
		allTools = append(allTools, mcpTools...)
	}

	return clients, allTools
}

func connectMCPServer(server config.MCPServerConfig) (*client.Client, []tools.Tool, error) {
	serverPath := fmt.Sprintf("http://%s:%s/mcp", server.Host, server.Port)
	mcpClient, err := client.NewStreamableHttpClient(serverPath,
		transport.WithHTTPBasicClient(mcpHTTPClient),
	)
	if err != nil {
		return nil, nil, err
	}

	if err := mcpClient.Start(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("failed to init connection to the mcp server: %v", err)
	}

	adapter, err := mcpadapter.New(mcpClient)
	if err != nil {
		mcpClient.Close()
		return nil, nil, fmt.Errorf("failed to create mcp adapter: %v", err)
	}

	mcpTools, err := adapter.Tools()
	if err != nil {
		mcpClient.Close()
		return nil, nil, fmt.Errorf("failed to get mcp tools: %v", err)
	}

	return mcpClient, mcpTools, nil
}

// renderSystemPrefix 将会话上下文中的已知信息追加到人格前缀
func renderSystemPrefix(userContext map[string]any) string {
	prefix := systemPrefix

	if userContext == nil {
		return prefix
	}

	var b strings.Builder
	b.WriteString(prefix)
	if name, ok := userContext["user_name"]; ok {
		b.WriteString(fmt.Sprintf("\n\nUser's name: %v", name))
	}
	if tz, ok := userContext["timezone"]; ok {
		b.WriteString(fmt.Sprintf("\nUser's timezone: %v", tz))
	}
	if prefs, ok := userContext["preferences"]; ok {
		b.WriteString(fmt.Sprintf("\nKnown preferences: %v", prefs))
	}
	return b.String()
}

// SelectImagePrompt 依据图注选择分析提示词：
// 疑似聊天截图使用结构化会话分析，否则用图注加通用提示
func SelectImagePrompt(caption string) string {
	lower := strings.ToLower(caption)
	conversational := []string{"conversation", "chat", "message", "whatsapp", "telegram", "imessage"}
	for _, kw := range conversational {
		if strings.Contains(lower, kw) {
			return conversationAnalysisPrompt
		}
	}
	if caption == "" || lower == "what's in this image?" {
		return conversationAnalysisPrompt
	}
	return caption + "\n\n" + generalImagePrompt
}

// AnalyzeImage 对截图做一次性视觉分析，不经过 Agent 工具链。
// 返回的纯文本随后交给动作提取器。
func AnalyzeImage(ctx context.Context, imageData []byte, mediaType, prompt string, userContext map[string]any) (string, error) {
	llm, err := openai.New(
		openai.WithModel(config.Cfg.Model.Name),
		openai.WithToken(config.Cfg.Model.APIKey),
		openai.WithBaseURL(config.Cfg.Model.BaseURL),
		openai.WithHTTPClient(assistantHTTPClient),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create llm client: %v", err)
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, renderSystemPrefix(userContext)),
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(mediaType, imageData),
				llms.TextPart(prompt),
			},
		},
	}

	resp, err := llm.GenerateContent(ctx, content,
		llms.WithMaxTokens(config.Cfg.Model.MaxTokens),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	return resp.Choices[0].Content, nil
}
