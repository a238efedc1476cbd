package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	"github.com/storacha/sequence-tester/pkg/config"
	"github.com/storacha/sequence-tester/pkg/eventlog"
	"github.com/storacha/sequence-tester/pkg/model"
	"github.com/storacha/sequence-tester/pkg/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sequence test",
	Long:  "Emits the configured values through the threshold check and prints each value, or the error that aborted the sequence, one per line.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		logging.SetLogLevel("*", config.LogLevel)

		valuesFlag, err := cmd.Flags().GetString("values")
		cobra.CheckErr(err)
		values, err := config.ParseValues(valuesFlag)
		cobra.CheckErr(err)
		limit, err := cmd.Flags().GetInt("threshold")
		cobra.CheckErr(err)
		eventsPath, err := cmd.Flags().GetString("events")
		cobra.CheckErr(err)

		err = runSequence(cmd.Context(), runner.SequenceTestConfig{
			Values:    values,
			Threshold: limit,
		}, cmd.OutOrStdout(), eventsPath)
		cobra.CheckErr(err)
	},
}

// runSequence runs the sequence test, writing the event log to eventsPath if
// set. The log is flushed and closed even when the run fails.
func runSequence(ctx context.Context, cfg runner.SequenceTestConfig, out io.Writer, eventsPath string) (err error) {
	var events eventlog.Appender[model.Event]
	if eventsPath != "" {
		eventsData, createErr := os.Create(eventsPath)
		if createErr != nil {
			return fmt.Errorf("creating event log: %w", createErr)
		}
		csvEvents := eventlog.NewCSVWriter[model.Event](eventsData)
		events = csvEvents
		defer func() {
			err = errors.Join(err, csvEvents.Flush(), eventsData.Close())
		}()
	}

	r, err := runner.NewSequenceTestRunner(cfg, out, events)
	if err != nil {
		return err
	}
	return r.Run(ctx)
}

func init() {
	runCmd.Flags().String("values", config.FormatValues(config.Values), "comma separated values to emit, in order")
	runCmd.Flags().Int("threshold", config.Threshold, "largest value allowed through")
	runCmd.Flags().String("events", "", "path to write a CSV event log to")
	rootCmd.AddCommand(runCmd)
}
