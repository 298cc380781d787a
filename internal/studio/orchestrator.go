package studio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/providers/engine"
	"server/internal/studio/contract"
	"server/internal/studio/prompt"
	"server/internal/usage"
)

// State is one node of the generation state machine. The repair loop is an
// explicit transition rather than an implicit retry so the cost bound (at
// most two engine calls) is enforceable and testable.
type State string

const (
	StateCheckingEntitlement State = "CHECKING_ENTITLEMENT"
	StateComposing           State = "COMPOSING"
	StateGenerating          State = "GENERATING"
	StateValidating          State = "VALIDATING"
	StateAccepted            State = "ACCEPTED"
	StateRepairing           State = "REPAIRING"
	StateRejected            State = "REJECTED"
)

// maxAttempts bounds engine invocations per request: the original call plus
// one silent repair.
const maxAttempts = 2

// Resolver is the entitlement collaborator.
type Resolver interface {
	Resolve(ctx context.Context, userID string) (domain.PlanSnapshot, error)
}

// Request is one caller's generation ask. It is owned exclusively by the
// call that created it.
type Request struct {
	UserID  string
	Profile domain.Profile
	History []domain.ProjectSummary
	Recipe  domain.Recipe
}

// Outcome is the terminal result surfaced to the caller. Repairs are
// invisible except through the Repaired state and attempt count.
type Outcome struct {
	State    domain.ResultState
	Content  *domain.Content
	Reason   domain.RejectReason
	Failures []contract.Failure
	Attempts int
	Plan     domain.PlanSnapshot
}

// Accepted reports whether content reached the caller.
func (o Outcome) Accepted() bool {
	return o.State == domain.ResultAccepted || o.State == domain.ResultRepaired
}

// Orchestrator sequences entitlement check, prompt composition, engine
// invocation and contract validation for one generation request.
type Orchestrator struct {
	resolver  Resolver
	composer  *prompt.Composer
	validator *contract.Validator
	engine    engine.Engine
	usage     usage.Store
	logger    zerolog.Logger

	// EngineTimeout bounds each engine invocation; zero means no bound
	// beyond the caller's context.
	EngineTimeout time.Duration
}

// NewOrchestrator wires the pipeline components.
func NewOrchestrator(resolver Resolver, composer *prompt.Composer, validator *contract.Validator, eng engine.Engine, store usage.Store, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		resolver:      resolver,
		composer:      composer,
		validator:     validator,
		engine:        eng,
		usage:         store,
		logger:        logger,
		EngineTimeout: 30 * time.Second,
	}
}

// Generate drives the state machine to a terminal state. A returned error
// means the request itself could not be processed (cancelled caller,
// invalid recipe, store failure); quota and contract rejections are not
// errors, they are REJECTED outcomes. Usage is committed exactly once, only
// on acceptance.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Outcome, error) {
	if req.UserID == "" {
		return Outcome{State: domain.ResultRejected, Reason: domain.ReasonUnauthorized}, nil
	}

	recipe := req.Recipe
	recipe.Normalize(req.Profile.Language)
	if err := recipe.Validate(); err != nil {
		return Outcome{}, err
	}

	var (
		state    = StateCheckingEntitlement
		snapshot domain.PlanSnapshot
		payload  prompt.Payload
		raw      string
		attempts int
		lastErr  error
		lastOut  contract.Outcome
	)

	for {
		switch state {
		case StateCheckingEntitlement:
			var err error
			snapshot, err = o.resolver.Resolve(ctx, req.UserID)
			if err != nil {
				return Outcome{}, fmt.Errorf("check entitlement: %w", err)
			}
			if !snapshot.IsPro() && snapshot.GenerationsToday >= snapshot.GenerationsPerDay {
				return o.rejected(req, snapshot, domain.ReasonQuotaExceeded, nil, attempts), nil
			}
			state = StateComposing

		case StateComposing:
			payload = o.composer.Compose(req.Profile, req.History, recipe)
			state = StateGenerating

		case StateGenerating:
			attempts++
			var err error
			raw, err = o.invokeEngine(ctx, payload)
			if err != nil {
				if ctx.Err() != nil {
					// Caller went away: abandon the request without
					// committing any usage.
					return Outcome{}, ctx.Err()
				}
				lastErr = err
				o.logger.Warn().Err(err).Str("user_id", req.UserID).Int("attempt", attempts).Msg("engine invocation failed")
				if attempts < maxAttempts {
					state = StateRepairing
					continue
				}
				reason := domain.ReasonEngineTimeout
				return o.rejected(req, snapshot, reason, nil, attempts), nil
			}
			state = StateValidating

		case StateValidating:
			lastOut = o.validator.Validate(raw, recipe)
			if lastOut.Passed() {
				state = StateAccepted
				continue
			}
			o.logger.Info().Str("user_id", req.UserID).Int("attempt", attempts).
				Interface("failures", lastOut.Failures).Msg("contract validation failed")
			if attempts < maxAttempts {
				state = StateRepairing
				continue
			}
			reason := domain.ReasonMalformedOutput
			if kinds := lastOut.Kinds(); len(kinds) > 0 {
				reason = kinds[0].Reason()
			}
			return o.rejected(req, snapshot, reason, lastOut.Failures, attempts), nil

		case StateRepairing:
			// Silent repair: same payload plus a corrective instruction
			// naming the failure kinds. Transport failures retry the
			// original payload unchanged.
			if lastErr == nil || len(lastOut.Failures) > 0 {
				kinds := make([]string, 0, len(lastOut.Failures))
				for _, k := range lastOut.Kinds() {
					kinds = append(kinds, string(k))
				}
				payload = o.composer.Repair(payload, kinds)
			}
			lastErr = nil
			state = StateGenerating

		case StateAccepted:
			limit := 0
			if !snapshot.IsPro() {
				limit = snapshot.GenerationsPerDay
			}
			used, err := o.usage.Consume(ctx, req.UserID, limit)
			if err != nil {
				if errors.Is(err, domain.ErrQuotaExceeded) {
					// A concurrent request took the last slot between the
					// entitlement read and this commit.
					return o.rejected(req, snapshot, domain.ReasonQuotaExceeded, nil, attempts), nil
				}
				return Outcome{}, fmt.Errorf("commit usage: %w", err)
			}
			snapshot.GenerationsToday = used
			resultState := domain.ResultAccepted
			if attempts > 1 {
				resultState = domain.ResultRepaired
			}
			o.logger.Info().Str("user_id", req.UserID).Int("attempts", attempts).
				Str("state", string(resultState)).Msg("generation accepted")
			return Outcome{
				State:    resultState,
				Content:  lastOut.Content,
				Attempts: attempts,
				Plan:     snapshot,
			}, nil
		}
	}
}

func (o *Orchestrator) rejected(req Request, snapshot domain.PlanSnapshot, reason domain.RejectReason, failures []contract.Failure, attempts int) Outcome {
	o.logger.Info().Str("user_id", req.UserID).Str("reason", string(reason)).
		Int("attempts", attempts).Msg("generation rejected")
	return Outcome{
		State:    domain.ResultRejected,
		Reason:   reason,
		Failures: failures,
		Attempts: attempts,
		Plan:     snapshot,
	}
}

// invokeEngine is the pipeline's only suspension point. The wait is bounded
// so a stalled provider feeds the repair-once-then-reject path instead of
// hanging the request.
func (o *Orchestrator) invokeEngine(ctx context.Context, payload prompt.Payload) (string, error) {
	if o.EngineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.EngineTimeout)
		defer cancel()
	}
	raw, err := o.engine.Generate(ctx, payload)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", domain.ErrEngineTimeout, err)
		}
		return "", err
	}
	return raw, nil
}
