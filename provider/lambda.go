package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ZaguanLabs/doclai"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// LambdaInvoker is the part of the Lambda client the provider needs.
type LambdaInvoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaRequest is the payload sent to a translator function.
type LambdaRequest struct {
	Items         map[string]string            `json:"items"`
	Contexts      map[string]doclai.ContextTag `json:"contexts,omitempty"`
	SourceLang    string                       `json:"source_lang"`
	TargetLang    string                       `json:"target_lang"`
	Topic         string                       `json:"topic,omitempty"`
	Style         doclai.TranslationStyle      `json:"style,omitempty"`
	Glossary      map[string]string            `json:"glossary,omitempty"`
	ExcludedTerms []string                     `json:"excluded_terms,omitempty"`
	RepairHint    string                       `json:"repair_hint,omitempty"`
}

// LambdaResponse is the payload a translator function returns.
type LambdaResponse struct {
	Translations map[string]string `json:"translations"`
	Error        string            `json:"error,omitempty"`
}

// LambdaProvider implements AIProvider by invoking an AWS Lambda function
// synchronously, one invocation per chunk.
type LambdaProvider struct {
	client   LambdaInvoker
	function string
}

// LambdaConfig holds configuration for the Lambda provider.
type LambdaConfig struct {
	Function string // Function name or ARN
	Region   string // Optional; the default AWS config chain applies otherwise
}

// NewLambdaProvider loads the default AWS configuration and builds a client.
func NewLambdaProvider(ctx context.Context, cfg LambdaConfig) (*LambdaProvider, error) {
	if cfg.Function == "" {
		return nil, fmt.Errorf("lambda provider: function name is required")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewLambdaProviderWithClient(lambda.NewFromConfig(awsCfg), cfg.Function), nil
}

// NewLambdaProviderWithClient wraps an existing invoker.
func NewLambdaProviderWithClient(client LambdaInvoker, function string) *LambdaProvider {
	return &LambdaProvider{client: client, function: function}
}

// Translate invokes the function with one numbered map.
func (p *LambdaProvider) Translate(ctx context.Context, req TranslateRequest) (map[string]string, error) {
	if len(req.Items) == 0 {
		return map[string]string{}, nil
	}

	payload, err := json.Marshal(LambdaRequest{
		Items:         req.Items,
		Contexts:      req.Contexts,
		SourceLang:    req.SourceLang,
		TargetLang:    req.TargetLang,
		Topic:         req.Topic,
		Style:         req.Style,
		Glossary:      req.Glossary,
		ExcludedTerms: req.ExcludedTerms,
		RepairHint:    req.RepairHint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	out, err := p.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(p.function),
		InvocationType: types.InvocationTypeRequestResponse,
		LogType:        types.LogTypeNone,
		Payload:        payload,
	})
	if err != nil {
		return nil, &doclai.ProviderError{
			Message:   fmt.Sprintf("failed to invoke %s", p.function),
			Cause:     err,
			Retryable: ctx.Err() == nil,
		}
	}
	if out.FunctionError != nil {
		return nil, &doclai.ProviderError{
			Message: fmt.Sprintf("lambda error: %s: %s", aws.ToString(out.FunctionError), abbreviate(string(out.Payload), 500)),
		}
	}

	var resp LambdaResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return nil, &doclai.ProviderError{Message: "failed to parse lambda response", Cause: err}
	}
	if resp.Error != "" {
		return nil, &doclai.ProviderError{Message: "translator error: " + resp.Error}
	}
	if resp.Translations == nil {
		resp.Translations = map[string]string{}
	}
	return resp.Translations, nil
}

var _ AIProvider = (*LambdaProvider)(nil)
