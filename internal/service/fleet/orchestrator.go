package fleet

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/pkg/logger"
	"gridwatch/backend/pkg/phemex"
)

// BotReconstructor rebuilds one bot. *Reconstructor implements it.
type BotReconstructor interface {
	Reconstruct(ctx context.Context, creds phemex.Credentials, bot *model.GridBot) model.BotState
}

// Orchestrator decides between live and demo data for a user and reconstructs the fleet.
//
// No credentials or failed validation give the demo fleet. Valid credentials with no bots give
// an empty live result. Otherwise every bot is reconstructed concurrently; a bot whose
// reconstruction panics becomes a placeholder, and any failure above the per-bot level
// falls back to demo.
type Orchestrator struct {
	exchange       Exchange
	reconstructor  BotReconstructor
	demo           *Synthesizer
	maxConcurrency int
	log            *logger.Logger
}

// NewOrchestrator creates an Orchestrator. maxConcurrency <= 0 reconstructs all bots at once.
func NewOrchestrator(exchange Exchange, reconstructor BotReconstructor, demo *Synthesizer, maxConcurrency int) *Orchestrator {
	return &Orchestrator{
		exchange:       exchange,
		reconstructor:  reconstructor,
		demo:           demo,
		maxConcurrency: maxConcurrency,
		log:            logger.GetLogger().Component("fleet"),
	}
}

// Reconstruct produces the fleet result for one pass. creds may be nil.
func (o *Orchestrator) Reconstruct(ctx context.Context, creds *phemex.Credentials, bots []model.GridBot) (result model.FleetResult) {
	defer func() {
		if rec := recover(); rec != nil {
			o.log.Error("fleet reconstruction failed, serving demo data", &PanicError{Value: rec})
			result = o.Demo(model.MessageFleetError)
		}
	}()

	if creds == nil || creds.IsZero() {
		return o.Demo(model.MessageNoCredentials)
	}

	if err := o.exchange.ValidateCredentials(ctx, *creds); err != nil {
		o.log.Warnf("credential validation failed: %v", err)
		return o.Demo(model.MessageValidationFailed)
	}

	if len(bots) == 0 {
		return model.FleetResult{
			Mode:    model.FleetModeLive,
			Bots:    []model.BotState{},
			Message: model.MessageNoBots,
		}
	}

	states, err := o.reconstructAll(ctx, *creds, bots)
	if err != nil {
		o.log.Error("fleet reconstruction failed, serving demo data", err)
		return o.Demo(model.MessageFleetError)
	}

	return model.FleetResult{Mode: model.FleetModeLive, Bots: states}
}

func (o *Orchestrator) reconstructAll(ctx context.Context, creds phemex.Credentials, bots []model.GridBot) ([]model.BotState, error) {
	states := make([]model.BotState, len(bots))

	var g errgroup.Group
	if o.maxConcurrency > 0 {
		g.SetLimit(o.maxConcurrency)
	}
	for i := range bots {
		bot := &bots[i]
		g.Go(func() error {
			err := guard(func() error {
				states[i] = o.reconstructor.Reconstruct(ctx, creds, bot)
				return nil
			})
			var pe *PanicError
			if errors.As(err, &pe) {
				o.log.WithFields(map[string]interface{}{
					"bot_id": bot.ID,
					"pair":   bot.Pair,
				}).Errorf("bot reconstruction panicked: %v", pe.Value)
				states[i] = Placeholder(bot)
			}
			return nil
		})
	}
	return states, g.Wait()
}

// Demo is the synthetic fleet served with message when live data is unavailable
func (o *Orchestrator) Demo(message string) model.FleetResult {
	return model.FleetResult{
		Mode:    model.FleetModeDemo,
		Bots:    o.demo.Fleet(),
		Message: message,
	}
}
