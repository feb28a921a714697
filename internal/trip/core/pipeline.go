package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mohammad-safakhou/voyago/internal/trip/telemetry"
)

// statusAfter maps each stage to the status the state reaches once that
// stage has run (degraded via fallback still counts as done).
var statusAfter = map[string]PipelineStatus{
	"Weather":          StatusWeatherDone,
	"Attractions":      StatusAttractionsDone,
	"Hotels":           StatusHotelsDone,
	"CostCalculator":   StatusCostsDone,
	"Currency":         StatusCurrencyDone,
	"ItineraryBuilder": StatusItineraryDone,
	"Summary":          StatusCompleted,
}

// Pipeline drives the fixed-order stage sequence. It is the sole owner
// of control flow: every stage runs exactly once, stage errors become
// diagnostics on the state, and only an exhausted overall deadline can
// cut the sequence short with a partial, best-effort state.
type Pipeline struct {
	stages       []Stage
	stageTimeout time.Duration
	telemetry    *telemetry.Telemetry
	logger       *log.Logger
}

func NewPipeline(stages []Stage, stageTimeout time.Duration, tele *telemetry.Telemetry) *Pipeline {
	if stageTimeout <= 0 {
		stageTimeout = 45 * time.Second
	}
	return &Pipeline{
		stages:       stages,
		stageTimeout: stageTimeout,
		telemetry:    tele,
		logger:       log.New(log.Writer(), "[PIPELINE] ", log.LstdFlags),
	}
}

// Run executes the stages in order, mutating state in place. The
// returned state always carries a status and an error log; Run itself
// only reports the context error when the overall deadline expired.
func (p *Pipeline) Run(ctx context.Context, state *PlanningState) error {
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			state.Errors = append(state.Errors, fmt.Sprintf("pipeline: aborted before %s: %v", stage.Name(), err))
			p.logger.Printf("deadline exhausted before %s, returning partial state", stage.Name())
			return err
		}

		stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
		start := time.Now()
		err := stage.Run(stageCtx, state)
		cancel()

		if p.telemetry != nil {
			p.telemetry.RecordStageEvent(ctx, telemetry.StageEvent{
				Stage:    stage.Name(),
				Duration: time.Since(start),
				FellBack: err != nil,
			})
		}
		if err != nil {
			state.Errors = append(state.Errors, fmt.Sprintf("%s: %v", stage.Name(), err))
			p.logger.Printf("stage %s fell back: %v", stage.Name(), err)
		} else {
			p.logger.Printf("stage %s done in %v", stage.Name(), time.Since(start))
		}

		if status, ok := statusAfter[stage.Name()]; ok {
			state.Status = status
		}
	}
	return nil
}
