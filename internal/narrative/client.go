package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/fairlens/backend/internal/metrics"
	"github.com/fairlens/backend/pkg/circuitbreaker"
	"github.com/fairlens/backend/pkg/logger"
	"github.com/fairlens/backend/pkg/retry"
)

// Client generates report prose through an OpenAI-compatible endpoint.
// A nil Client is valid; callers fall back to the static texts below.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
}

type CompletionResponse struct {
	Content string
	Usage   Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Audit carries the outcome of one analysis run, enough to write
// an executive summary without re-running the metrics.
type Audit struct {
	DatasetName   string
	ProtectedAttr string
	TotalMetrics  int
	Fair          int
	Warning       int
	Violation     int
	Overall       string
	Violations    []string
}

func NewClient(apiKey, model string, temperature float32, maxTokens int, timeout time.Duration) *Client {
	client := openai.NewClient(apiKey)

	cb := circuitbreaker.NewCircuitBreaker("narrative", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger.Info("Narrative client initialized",
		zap.String("model", model),
	)

	return &Client{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     timeout,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: req.UserPrompt,
		},
	}

	var result *CompletionResponse

	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			resp, err := c.client.CreateChatCompletion(
				ctx,
				openai.ChatCompletionRequest{
					Model:       c.model,
					Messages:    messages,
					Temperature: temperature,
					MaxTokens:   maxTokens,
				},
			)

			if err != nil {
				return fmt.Errorf("failed to create completion: %w", err)
			}

			metrics.NarrativeTokensUsed.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
			metrics.NarrativeTokensUsed.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))

			logger.Debug("Narrative completion generated",
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			)

			result = &CompletionResponse{
				Content: resp.Choices[0].Message.Content,
				Usage: Usage{
					PromptTokens:     resp.Usage.PromptTokens,
					CompletionTokens: resp.Usage.CompletionTokens,
					TotalTokens:      resp.Usage.TotalTokens,
				},
			}

			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// ExecutiveSummary writes the opening prose of a fairness report.
func (c *Client) ExecutiveSummary(ctx context.Context, audit Audit) (string, error) {
	systemPrompt := `You are a fairness analyst writing for a recruiting team. Write a short executive summary of an AI fairness audit.

Requirements:
- 3 to 5 sentences of plain prose, no markdown or bullet points
- State the overall assessment and the metric counts you are given
- Name the metrics found in violation, if any
- Do not invent numbers or metrics that are not provided`

	violations := "none"
	if len(audit.Violations) > 0 {
		violations = strings.Join(audit.Violations, ", ")
	}

	userPrompt := fmt.Sprintf(`Dataset: %s
Protected attribute: %s
Metrics evaluated: %d
Fair: %d | Warnings: %d | Violations: %d
Overall assessment: %s
Metrics in violation: %s

Write the executive summary.`,
		audit.DatasetName,
		audit.ProtectedAttr,
		audit.TotalMetrics,
		audit.Fair,
		audit.Warning,
		audit.Violation,
		audit.Overall,
		violations,
	)

	resp, err := c.Complete(ctx, CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  0.3,
		MaxTokens:    400,
	})

	if err != nil {
		return "", fmt.Errorf("failed to generate executive summary: %w", err)
	}

	logger.Info("Executive summary generated",
		zap.String("dataset", audit.DatasetName),
		zap.Int("summary_length", len(resp.Content)),
	)

	return strings.TrimSpace(resp.Content), nil
}

// StaticExecutiveSummary is the fixed opening prose used when no
// language model is configured.
func StaticExecutiveSummary(audit Audit) string {
	return fmt.Sprintf(
		"This report presents a comprehensive fairness audit of the AI system analyzing %s. "+
			"The analysis evaluated %d fairness metrics across the protected attribute %q.",
		audit.DatasetName, audit.TotalMetrics, audit.ProtectedAttr)
}

// Guidance is the closing section of a report: a lead paragraph and
// a numbered action list.
type Guidance struct {
	Text    string
	Actions []string
}

// Recommendations picks the closing guidance from the audit outcome.
// Violations take precedence over warnings.
func Recommendations(warning, violation int) Guidance {
	if violation > 0 {
		return Guidance{
			Text: fmt.Sprintf(
				"This audit identified %d fairness violation(s) and %d warning(s). "+
					"Immediate action is recommended to address these issues before deployment "+
					"or continued use of the AI system.", violation, warning),
			Actions: []string{
				"Review all metrics marked as violations in detail",
				"Investigate root causes in training data and model architecture",
				"Implement recommended mitigation strategies",
				"Re-evaluate after implementing changes",
				"Establish ongoing monitoring procedures",
			},
		}
	}

	if warning > 0 {
		return Guidance{
			Text: fmt.Sprintf(
				"This audit identified %d warning(s). While no severe violations were detected, "+
					"attention should be given to these areas to prevent potential fairness issues.", warning),
			Actions: []string{
				"Monitor warned metrics closely",
				"Consider preventive adjustments",
				"Establish regular fairness audits",
			},
		}
	}

	return Guidance{
		Text: "Congratulations! This audit found no fairness violations or warnings. " +
			"However, fairness is an ongoing concern.",
		Actions: []string{
			"Maintain regular fairness monitoring",
			"Re-audit when data or model changes",
			"Stay informed about fairness best practices",
		},
	}
}
