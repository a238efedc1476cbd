package cmd

import (
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	"github.com/storacha/sequence-tester/pkg/config"
	"github.com/storacha/sequence-tester/pkg/eventlog"
	"github.com/storacha/sequence-tester/pkg/model"
	"github.com/storacha/sequence-tester/pkg/runner"
)

var replayCmd = &cobra.Command{
	Use:   "replay <path to events csv>",
	Short: "Replay a recorded run",
	Long:  "Verifies the events in the passed CSV event log and prints the output the observer saw.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logging.SetLogLevel("*", config.LogLevel)

		eventsData, err := os.Open(args[0])
		cobra.CheckErr(err)
		defer eventsData.Close()

		events := eventlog.NewCSVReader[model.Event](eventsData)

		err = runner.NewReplayRunner(events, cmd.OutOrStdout()).Run(cmd.Context())
		cobra.CheckErr(err)
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
