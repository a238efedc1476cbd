package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/storacha/sequence-tester/pkg/eventlog"
	"github.com/storacha/sequence-tester/pkg/model"
	"github.com/storacha/sequence-tester/pkg/stream"
)

// ReplayRunner re-prints the output of previous runs from their event log,
// verifying the digest of every event on the way.
type ReplayRunner struct {
	events eventlog.Iterable[model.Event]
	out    io.Writer
}

func (r *ReplayRunner) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ended := map[uuid.UUID]bool{}
	next := map[uuid.UUID]int{}
	var runs []uuid.UUID
	var current uuid.UUID
	check := func(evt model.Event) error {
		if err := evt.Verify(); err != nil {
			return err
		}
		if ended[evt.Run] {
			return fmt.Errorf("event %d of run %s follows a terminal event", evt.Seq, evt.Run)
		}
		expected, seen := next[evt.Run]
		if !seen {
			runs = append(runs, evt.Run)
		}
		if evt.Seq != expected {
			return fmt.Errorf("hash integrity failure: run %s: expected event %d, found event %d", evt.Run, expected, evt.Seq)
		}
		next[evt.Run] = expected + 1
		if evt.Kind.Terminal() {
			ended[evt.Run] = true
		}
		return nil
	}

	var failure error
	emit := func(a any) {
		if failure != nil {
			return
		}
		if _, err := fmt.Fprintln(r.out, a); err != nil {
			failure = fmt.Errorf("writing output: %w", err)
		}
	}

	err := stream.From[model.Event](r.events).
		Pipe(stream.Tap(check)).
		Subscribe(stream.Observer[model.Event]{
			Next: func(evt model.Event) {
				if evt.Run != current {
					current = evt.Run
					log.Info("Replaying run")
					log.Infof("  %s", evt.Run)
				}
				switch evt.Kind {
				case model.KindNext:
					emit(evt.Value)
				case model.KindError:
					emit(evt.Error.Message)
				case model.KindComplete:
					log.Infof("Run %s completed", evt.Run)
				default:
					log.Warnf("Unknown event kind %q in run %s", evt.Kind, evt.Run)
				}
			},
			Error: func(err error) {
				log.Errorf("Replay failed: %s", err)
			},
		})
	if err != nil {
		return fmt.Errorf("replaying events: %w", err)
	}
	for _, run := range runs {
		if !ended[run] {
			return fmt.Errorf("replaying events: hash integrity failure: run %s has no terminal event after event %d", run, next[run]-1)
		}
	}
	return failure
}

func NewReplayRunner(events eventlog.Iterable[model.Event], out io.Writer) *ReplayRunner {
	return &ReplayRunner{events: events, out: out}
}
