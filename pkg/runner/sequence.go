package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/storacha/sequence-tester/pkg/eventlog"
	"github.com/storacha/sequence-tester/pkg/model"
	"github.com/storacha/sequence-tester/pkg/stream"
	"github.com/storacha/sequence-tester/pkg/threshold"
)

var log = logging.Logger("runner")

type SequenceTestConfig struct {
	Values    []int
	Threshold int
}

// SequenceTestRunner emits the configured values through a threshold check
// and prints each value, or the error that aborted the sequence, to out. Every
// notification is also recorded to the event log.
type SequenceTestRunner struct {
	values    []int
	threshold int
	out       io.Writer
	events    eventlog.Appender[model.Event]
}

func (r *SequenceTestRunner) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	run := uuid.New()
	log.Info("Run")
	log.Infof("  %s", run)
	log.Infof("    values: %v", r.values)
	log.Infof("    threshold: %d", r.threshold)

	var failure error
	seq := 0
	record := func(kind model.Kind, value int, cause error) {
		if failure != nil || r.events == nil {
			return
		}
		evt, err := model.NewEvent(run, seq, kind, value, cause)
		if err != nil {
			failure = fmt.Errorf("creating event: %w", err)
			return
		}
		seq++
		if err := r.events.Append(evt); err != nil {
			failure = fmt.Errorf("appending event: %w", err)
		}
	}
	emit := func(a any) {
		if failure != nil {
			return
		}
		if _, err := fmt.Fprintln(r.out, a); err != nil {
			failure = fmt.Errorf("writing output: %w", err)
		}
	}

	delivered := 0
	err := stream.Of(r.values...).
		Pipe(stream.Tap(threshold.Check(r.threshold))).
		Subscribe(stream.Observer[int]{
			Next: func(v int) {
				delivered++
				emit(v)
				record(model.KindNext, v, nil)
			},
			Error: func(err error) {
				emit(err.Error())
				value := 0
				var exceeded threshold.ExceededError
				if errors.As(err, &exceeded) {
					value = exceeded.Value
				}
				record(model.KindError, value, err)
			},
			Complete: func() {
				record(model.KindComplete, 0, nil)
			},
		})

	if err != nil {
		log.Warnf("Run %s aborted after %d values: %s", run, delivered, err)
	} else {
		log.Infof("Run %s completed after %d values", run, delivered)
	}
	return failure
}

func NewSequenceTestRunner(cfg SequenceTestConfig, out io.Writer, events eventlog.Appender[model.Event]) (*SequenceTestRunner, error) {
	if out == nil {
		return nil, errors.New("missing output writer")
	}
	return &SequenceTestRunner{
		values:    cfg.Values,
		threshold: cfg.Threshold,
		out:       out,
		events:    events,
	}, nil
}
