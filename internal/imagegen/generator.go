package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/tide"
)

// ErrNoAPIKey is returned by NewGenerator without a key.
var ErrNoAPIKey = errors.New("openai api key not set")

// Generator creates banner images with the OpenAI images API.
type Generator struct {
	client openai.Client
	model  string
	log    *zap.SugaredLogger
}

func NewGenerator(apiKey string, log *zap.SugaredLogger, opts ...option.RequestOption) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Generator{
		client: openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...),
		model:  "gpt-image-1",
		log:    log,
	}, nil
}

// Generate returns PNG bytes for the condition at the time of day of t.
func (g *Generator) Generate(ctx context.Context, c Condition, tod TimeOfDay, t time.Time) ([]byte, error) {
	moon := tide.PhaseName(t)
	key := Key(c, tod)

	g.log.Infof("imagegen: generating banner %s (moon: %s)", key, moon)

	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:        g.model,
		Prompt:       BuildPrompt(c, tod, moon),
		Size:         openai.ImageGenerateParamsSize1536x1024,
		Quality:      openai.ImageGenerateParamsQualityLow,
		OutputFormat: openai.ImageGenerateParamsOutputFormatPNG,
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, errors.New("no image data returned")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}

	g.log.Infof("imagegen: generated banner %s (%d bytes)", key, len(data))
	return data, nil
}
