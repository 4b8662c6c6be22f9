package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"lunaday/internal/activity"
	"lunaday/internal/lunar"
)

func addLunar(topLevel *cobra.Command, a *app) {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lunar [DATE]",
		Short: "Show the lunar date of a day.",
		Example: `
lunaday lunar
lunaday lunar 2024-02-10 --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := activity.DateOf(a.now())
			if len(args) == 1 {
				var err error
				if d, err = activity.ParseDate(args[0]); err != nil {
					return err
				}
			}
			info, err := lunar.ConvertDate(lunar.Chinese{}, d.Time())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, struct {
					Date  activity.Date `json:"date"`
					Lunar lunar.Info    `json:"lunar"`
				}{d, info})
			}
			fmt.Fprintf(out, "%s  %s\n", d, info.Long())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON.")
	topLevel.AddCommand(cmd)
}
