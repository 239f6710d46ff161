package notify

import (
	"context"

	"github.com/dmitrijs2005/vivarium/internal/logging"
	"golang.org/x/time/rate"
)

// Outcome is the delivery result for one device token. Err is nil on success.
type Outcome struct {
	Token string
	Err   error
}

// Dispatcher sends a reminder notification to every device token of its
// owner. A failing token never blocks the others.
type Dispatcher struct {
	pusher  Pusher
	limiter *rate.Limiter
	logger  logging.Logger
}

// NewDispatcher builds a dispatcher throttled to perSecond pushes per second.
// A non-positive rate disables throttling. The limiter is shared by every
// goroutine calling Dispatch.
func NewDispatcher(pusher Pusher, perSecond float64, logger logging.Logger) *Dispatcher {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = max(1, int(perSecond))
	}
	return &Dispatcher{
		pusher:  pusher,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With("module", "dispatcher"),
	}
}

// Dispatch pushes one message per token and returns an outcome per token in
// input order. It does not touch reminder state.
func (d *Dispatcher) Dispatch(ctx context.Context, title, body string, tokens []string, meta Metadata) []Outcome {
	outcomes := make([]Outcome, 0, len(tokens))
	for _, token := range tokens {
		outcome := Outcome{Token: token}
		if err := d.limiter.Wait(ctx); err != nil {
			outcome.Err = err
		} else {
			outcome.Err = d.pusher.Push(ctx, token, &Message{
				Title: title,
				Body:  body,
				Data:  meta.Data(),
			})
		}
		if outcome.Err != nil {
			d.logger.Warn(ctx, "push failed", "token", token, "error", outcome.Err)
		} else {
			d.logger.Debug(ctx, "push delivered", "token", token)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// Failed counts the failed outcomes.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
