package core

import (
	"context"
	"time"

	"github.com/mohammad-safakhou/voyago/internal/trip/telemetry"
)

// modelCaller wraps the LLM collaborator for a stage: one routed model,
// token accounting into telemetry.
type modelCaller struct {
	llm   LLMProvider
	model string
	tele  *telemetry.Telemetry
}

func (m modelCaller) generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	start := time.Now()
	out, inTok, outTok, err := m.llm.GenerateWithTokens(ctx, prompt, m.model, map[string]interface{}{
		"temperature": temperature,
		"max_tokens":  maxTokens,
	})
	if m.tele != nil {
		var cost float64
		if err == nil {
			cost = m.llm.CalculateCost(inTok, outTok, m.model)
		}
		m.tele.RecordLLMEvent(ctx, telemetry.LLMEvent{
			Model:        m.model,
			InputTokens:  inTok,
			OutputTokens: outTok,
			Cost:         cost,
			Duration:     time.Since(start),
			Success:      err == nil,
		})
	}
	return out, err
}
