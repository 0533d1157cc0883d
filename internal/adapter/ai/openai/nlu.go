package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/hawala-bot/internal/domain"
	"github.com/seu-repo/hawala-bot/internal/observability/telemetry"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type toolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Tools       []chatTool    `json:"tools,omitempty"`
	ToolChoice  string        `json:"tool_choice,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// tools describes the two functions the model may call. Branch parameters
// name the canonical directory so the model is steered toward valid values;
// validation still happens downstream regardless of what it returns.
func (c *Client) tools() []chatTool {
	branches := strings.Join(c.directory.List(), ", ")
	return []chatTool{
		{
			Type: "function",
			Function: toolFunction{
				Name:        "record_transfer",
				Description: "Saves a record of a monetary transfer between two gold store branches.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"amount": map[string]interface{}{
							"type":        "number",
							"description": "The numerical amount of money transferred.",
						},
						"currency": map[string]interface{}{
							"type":        "string",
							"description": fmt.Sprintf("The currency of the transfer (e.g., JOD, Dinar). Default is %s.", c.defaultCurrency),
						},
						"source_branch": map[string]interface{}{
							"type":        "string",
							"description": fmt.Sprintf("The name of the branch FROM which the money was sent. Must be one of: %s.", branches),
						},
						"destination_branch": map[string]interface{}{
							"type":        "string",
							"description": fmt.Sprintf("The name of the branch TO which the money was sent. Must be one of: %s.", branches),
						},
					},
					"required": []string{"amount", "source_branch", "destination_branch"},
				},
			},
		},
		{
			Type: "function",
			Function: toolFunction{
				Name:        "query_branch_total",
				Description: "Retrieves the total amount transferred FROM a specific branch for a given period (defaults to 'today').",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"query_branch": map[string]interface{}{
							"type":        "string",
							"description": fmt.Sprintf("The name of the branch to query the total transfers FROM. Must be one of: %s.", branches),
						},
						"date_range": map[string]interface{}{
							"type":        "string",
							"description": "The time period for the query. Currently, only 'today' is processed.",
							"enum":        []string{"today"},
						},
					},
					"required": []string{"query_branch"},
				},
			},
		},
	}
}

func (c *Client) systemPrompt() string {
	return fmt.Sprintf(
		"You are an assistant for a gold store business in Jordan. Your task is to understand employee requests (in Arabic) and extract information to call the appropriate function.\n"+
			"Available branches are: %s.\n"+
			"The default currency is %s.\n"+
			"Today's date is %s.\n"+
			"Analyze the user's message and call the relevant function with the extracted parameters.",
		strings.Join(c.directory.List(), ", "),
		c.defaultCurrency,
		time.Now().Format("2006-01-02"),
	)
}

// ResolveIntent sends the text to the chat completions endpoint and maps the
// outcome to a tagged IntentResult. Transport failures, rate limits and an
// open breaker are reported as OracleUnavailable inside the result.
func (c *Client) ResolveIntent(ctx context.Context, text string) (*domain.IntentResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("openai: empty input text")
	}

	start := time.Now()
	raw, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doChat(ctx, text)
	})
	telemetry.OracleLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			c.log.Warn("Oracle breaker open, reporting unavailable")
		} else {
			c.log.Error("Oracle call failed", zap.Error(err))
		}
		return &domain.IntentResult{Kind: domain.IntentOracleUnavailable}, nil
	}

	resp := raw.(*chatResponse)
	if len(resp.Choices) == 0 {
		c.log.Error("Oracle returned no choices")
		return &domain.IntentResult{Kind: domain.IntentMalformedResponse}, nil
	}

	message := resp.Choices[0].Message
	if len(message.ToolCalls) == 0 {
		// The model replied conversationally instead of issuing an
		// instruction; treat as not understood.
		c.log.Info("Oracle issued no instruction", zap.String("reply", message.Content))
		return &domain.IntentResult{Kind: domain.IntentUnclear}, nil
	}

	call := message.ToolCalls[0].Function
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		c.log.Error("Oracle arguments were not valid JSON",
			zap.String("function", call.Name),
			zap.String("arguments", call.Arguments),
		)
		return &domain.IntentResult{Kind: domain.IntentMalformedResponse}, nil
	}

	switch call.Name {
	case "record_transfer":
		return c.recordTransferIntent(args), nil
	case "query_branch_total":
		return c.queryBranchTotalIntent(args), nil
	default:
		c.log.Error("Oracle called an unknown function", zap.String("function", call.Name))
		return &domain.IntentResult{Kind: domain.IntentMalformedResponse}, nil
	}
}

func (c *Client) doChat(ctx context.Context, text string) (*chatResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}

	reqBody := chatRequest{
		Model: c.nluModel,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt()},
			{Role: "user", Content: text},
		},
		Tools:       c.tools(),
		ToolChoice:  "auto",
		Temperature: 0.1,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai: API error status %d", resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	return &result, nil
}

func (c *Client) recordTransferIntent(args map[string]interface{}) *domain.IntentResult {
	intent := &domain.RecordTransferIntent{
		Amount:            coerceAmount(args["amount"]),
		Currency:          c.normalizeCurrency(args["currency"]),
		SourceBranch:      c.safeguardBranch(args, "source_branch"),
		DestinationBranch: c.safeguardBranch(args, "destination_branch"),
	}
	if intent.Amount == nil {
		c.log.Warn("Oracle provided missing or non-numeric amount", zap.Any("amount", args["amount"]))
	}
	return &domain.IntentResult{
		Kind:   domain.IntentRecordTransfer,
		Record: intent,
	}
}

func (c *Client) queryBranchTotalIntent(args map[string]interface{}) *domain.IntentResult {
	dateRange, _ := args["date_range"].(string)
	if dateRange == "" {
		dateRange = "today"
	}
	return &domain.IntentResult{
		Kind: domain.IntentQueryBranchTotal,
		Query: &domain.QueryBranchTotalIntent{
			Branch:    c.safeguardBranch(args, "query_branch"),
			DateRange: dateRange,
		},
	}
}

// safeguardBranch pre-normalizes a branch entity when it already matches the
// directory. A value outside the directory is forwarded as-is with a warning;
// strict rejection belongs to the normalizer downstream.
func (c *Client) safeguardBranch(args map[string]interface{}, key string) string {
	value, _ := args[key].(string)
	if value == "" {
		return ""
	}
	if canonical, ok := c.directory.Normalize(value); ok {
		return canonical
	}
	c.log.Warn("Oracle extracted branch outside known list, relying on downstream validation",
		zap.String("entity", key),
		zap.String("value", value),
	)
	return value
}

// normalizeCurrency collapses dinar spellings to the JOD code and falls back
// to the default currency. Other currency strings pass through untouched.
func (c *Client) normalizeCurrency(value interface{}) string {
	currency, _ := value.(string)
	if strings.TrimSpace(currency) == "" {
		return c.defaultCurrency
	}
	upper := strings.ToUpper(currency)
	if strings.Contains(upper, "DINAR") || strings.Contains(upper, "JOD") {
		return "JOD"
	}
	return currency
}

// coerceAmount handles the two shapes a JSON-decoded amount can take: a
// number (float64 under encoding/json) or a string the model quoted.
func coerceAmount(value interface{}) *float64 {
	switch v := value.(type) {
	case float64:
		return &v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
