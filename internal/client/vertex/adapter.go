package vertexclient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/samasastudio/sq-gendash/internal/dto"
)

type Adapter struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

func NewAdapter(ctx context.Context, log *slog.Logger, projectID, region, model string) (*Adapter, error) {
	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		client: client,
		model:  model,
		log:    log,
	}, nil
}

func (a *Adapter) Close() error {
	if !a.Configured() {
		return nil
	}
	err := a.client.Close()
	if err != nil && a.log != nil {
		a.log.Error("vertex adapter close failed", "error", err)
	}
	return err
}

// Configured reports whether a client is available. Safe on a nil adapter.
func (a *Adapter) Configured() bool {
	return a != nil && a.client != nil
}

// Model is the default model name used when a request does not set one.
func (a *Adapter) Model() string {
	return a.model
}

func (a *Adapter) GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	out := dto.VertexGenerateResponse{}

	modelName := req.Model
	if modelName == "" {
		modelName = a.model
	}
	if modelName == "" {
		return out, fmt.Errorf("vertex model is required")
	}
	if req.UserMessage == "" {
		return out, fmt.Errorf("vertex generate request has no content")
	}

	model := a.client.GenerativeModel(modelName)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if req.MaxOutputTokens != nil {
		model.SetMaxOutputTokens(*req.MaxOutputTokens)
	}
	if req.ResponseMIMEType != "" {
		model.ResponseMIMEType = req.ResponseMIMEType
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserMessage))
	if err != nil {
		return out, err
	}

	out.Raw = resp
	out.Text, out.FinishReason = parseContentResponse(resp)
	return out, nil
}

// parseContentResponse joins the text parts of every candidate.
func parseContentResponse(resp *genai.GenerateContentResponse) (string, string) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ""
	}

	var text strings.Builder
	finish := resp.Candidates[0].FinishReason.String()
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if p, ok := part.(genai.Text); ok {
				text.WriteString(string(p))
			}
		}
	}

	return text.String(), finish
}
