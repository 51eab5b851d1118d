package cli

import (
	"github.com/spf13/cobra"

	"github.com/haskel/calburn/internal/cli/tui"
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Interactive terminal prediction form",
	Long: `Launch an interactive terminal form with the same inputs and bounds as
the web form. BMI updates as you type; press enter to predict.

Examples:
  calburn form                      # Use local artifacts
  calburn form --remote --host 10.0.0.1`,
	RunE: runForm,
}

func init() {
	formCmd.Flags().BoolVar(&remote, "remote", false, "predict through a running server instead of local artifacts")
	rootCmd.AddCommand(formCmd)
}

func runForm(cmd *cobra.Command, args []string) error {
	if remote {
		return tui.Run(tui.Config{Assessor: NewClient(), Source: GetServerURL()})
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pred, store, err := loadPredictor(cmd.Context(), cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	return tui.Run(tui.Config{Assessor: localAssessor{pred: pred}, Source: store.Dir()})
}
