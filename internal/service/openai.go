package service

import (
	"context"
	"fmt"
	"net/http"

	oagc "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// OpenAIService generates text through the official OpenAI client.
type OpenAIService struct {
	oac    *oagc.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIService builds a client. baseURL may be empty to use the public API.
// Retries are left to RecipeGenerator so attempts are counted in one place.
func NewOpenAIService(apiKey, baseURL, model string, httpClient *http.Client, logger *zap.Logger) *OpenAIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if model == "" {
		model = string(oagc.ChatModelGPT4oMini)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAIService{
		oac:    oagc.NewClient(opts...),
		model:  model,
		logger: logger.Named("openai"),
	}
}

// Complete sends a system and a user message and returns the first choice.
func (o *OpenAIService) Complete(ctx context.Context, in CompletionRequest) (string, error) {
	model := in.Model
	if model == "" {
		model = o.model
	}

	params := oagc.ChatCompletionNewParams{
		Messages: oagc.F([]oagc.ChatCompletionMessageParamUnion{
			oagc.SystemMessage(in.System),
			oagc.UserMessage(in.User),
		}),
		Model:       oagc.F(oagc.ChatModel(model)),
		Temperature: oagc.Float(in.Temperature),
	}
	if in.JSONMode {
		params.ResponseFormat = oagc.F[oagc.ChatCompletionNewParamsResponseFormatUnion](
			oagc.ResponseFormatJSONObjectParam{Type: oagc.F(oagc.ResponseFormatJSONObjectTypeJSONObject)},
		)
	}

	resp, err := o.oac.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	o.logger.Debug("chat completion received", zap.String("model", resp.Model), zap.Int64("tokens", resp.Usage.TotalTokens))
	return resp.Choices[0].Message.Content, nil
}
