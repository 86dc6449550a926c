package agents

import (
	"context"
	"encoding/json"
	"time"

	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
	"tripweaver/internal/schema"
)

// callAgent runs one generation round trip: prompt the transport, parse the
// JSON payload, normalise it, and decode into the typed record. A malformed
// payload earns exactly one retry with JSON output forced.
func callAgent[T any](
	ctx context.Context,
	gen Generator,
	log *logger.Logger,
	agentName string,
	request GenerationRequest,
	normalize func(map[string]interface{}) map[string]interface{},
) (T, error) {
	var empty T
	start := time.Now()

	payload, err := generateJSON(ctx, gen, log, agentName, request)
	if err != nil {
		return empty, models.NewAgentError(agentName, err)
	}

	if normalize != nil {
		payload = normalize(payload)
	}

	decoded, err := schema.Decode[T](payload)
	if err != nil {
		log.WithError(err).Error("Agent payload failed strict decoding",
			"agent", agentName,
			"prompt_version", request.PromptVersion,
		)
		return empty, models.NewAgentError(agentName, err)
	}

	log.LogAgent("", agentName, "generate", time.Since(start), logger.Fields{
		"prompt_version": request.PromptVersion,
		"prompt_length":  len(request.Prompt),
	}, nil)

	return decoded, nil
}

func generateJSON(
	ctx context.Context,
	gen Generator,
	log *logger.Logger,
	agentName string,
	request GenerationRequest,
) (map[string]interface{}, error) {
	content, err := gen.Generate(ctx, request)
	if err != nil {
		return nil, err
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(content), &payload); err == nil {
		return payload, nil
	}

	log.Warn("Agent returned malformed JSON, retrying with forced JSON output",
		"agent", agentName,
		"prompt_version", request.PromptVersion,
	)

	retry := request
	retry.ForceJSON = true
	content, err = gen.Generate(ctx, retry)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
