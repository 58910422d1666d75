package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sologit/sologit/internal/config"
)

func init() {
	rootCmd.AddCommand(configValidateCmd)
}

var configValidateCmd = &cobra.Command{
	Use:   "config-validate <config-file>",
	Short: "Validate an orchestrator config file (router tiers, cost guard, deployments)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}
		errs := config.Validate(cfg)
		if len(errs) == 0 {
			fmt.Println("config is valid")
			return nil
		}
		for _, e := range errs {
			fmt.Println("-", e)
		}
		return fmt.Errorf("%d configuration error(s) found", len(errs))
	},
}
