package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lunaday/internal/activity"
	"lunaday/internal/lunar"
)

const layoutShort = "1/2"

// onOptions is the --on date flag shared by the activity commands.
type onOptions struct {
	On string
}

func addOnArgs(cmd *cobra.Command, o *onOptions, usage string) {
	cmd.Flags().StringVar(&o.On, "on", "", usage)
}

// date parses --on: YYYY-MM-DD, M/D in the current year, "today" or
// "tomorrow". An empty value is today.
func (o *onOptions) date(now time.Time) (activity.Date, error) {
	switch s := strings.ToLower(strings.TrimSpace(o.On)); s {
	case "", "today":
		return activity.DateOf(now), nil
	case "tomorrow":
		return activity.DateOf(now.AddDate(0, 0, 1)), nil
	default:
		if d, err := activity.ParseDate(s); err == nil {
			return d, nil
		}
		t, err := time.Parse(layoutShort, s)
		if err != nil {
			return activity.Date{}, fmt.Errorf("bad --on %q: want YYYY-MM-DD or M/D", o.On)
		}
		// "1/2" parses in year 0, a leap year, so 2/29 needs rechecking.
		d := activity.DateOf(time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
		if d.Month != t.Month() || d.Day != t.Day() {
			return activity.Date{}, fmt.Errorf("bad --on %q: no such day in %d", o.On, now.Year())
		}
		return d, nil
	}
}

func addAdd(topLevel *cobra.Command, a *app) {
	on := &onOptions{}
	var at, note string

	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add an activity to a day.",
		Example: `
lunaday add --on 2024-03-15 --time 09:00 Meeting with Ana
lunaday add --on 3/15 --note "bring slides" Review
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := on.date(a.now())
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			act, err := a.store.Add(d, strings.Join(args, " "), at, note)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s on %s\n", act.ID, act.Date)
			return nil
		},
	}

	addOnArgs(cmd, on, `Day to add to, example: --on="2024-03-15" or --on="3/15" (default today).`)
	cmd.Flags().StringVar(&at, "time", "", "Time of day as HH:MM.")
	cmd.Flags().StringVar(&note, "note", "", "Free-text description.")
	topLevel.AddCommand(cmd)
}

func addList(topLevel *cobra.Command, a *app) {
	on := &onOptions{}
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities.",
		Example: `
lunaday list
lunaday list --on 2024-03-15 --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("on") {
				d, err := on.date(a.now())
				if err != nil {
					return err
				}
				items := a.store.ActivitiesFor(d)
				if asJSON {
					return writeJSON(out, items)
				}
				printDay(out, d, items)
				return nil
			}

			if asJSON {
				return writeJSON(out, a.store.Snapshot())
			}
			dates := a.store.Dates()
			if len(dates) == 0 {
				fmt.Fprintln(out, "No activities.")
				return nil
			}
			for _, d := range dates {
				printDay(out, d, a.store.ActivitiesFor(d))
			}
			return nil
		},
	}

	addOnArgs(cmd, on, "Only list this day.")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON.")
	topLevel.AddCommand(cmd)
}

func addRm(topLevel *cobra.Command, a *app) {
	on := &onOptions{}

	cmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete an activity.",
		Example: `
lunaday rm 01928f3e-7c1a-7b2e-9d1f-3a4b5c6d7e8f
lunaday rm --on 2024-03-15 01928f3e-7c1a-7b2e-9d1f-3a4b5c6d7e8f
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			id := args[0]
			found, ok := a.store.Find(id)
			if !ok {
				return fmt.Errorf("no activity %q", id)
			}
			if cmd.Flags().Changed("on") {
				d, err := on.date(a.now())
				if err != nil {
					return err
				}
				if d != found.Date {
					return fmt.Errorf("activity %q is on %s, not %s", id, found.Date, d)
				}
			}
			a.store.Remove(found.Date, id)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q from %s\n", found.Title, found.Date)
			return nil
		},
	}

	addOnArgs(cmd, on, "Day the activity is on; checked against the stored day.")
	topLevel.AddCommand(cmd)
}

func printDay(out io.Writer, d activity.Date, items []activity.Activity) {
	header := d.String()
	if info, err := lunar.ConvertDate(lunar.Chinese{}, d.Time()); err == nil {
		header += " (" + info.Short() + ")"
	}
	fmt.Fprintln(out, header)
	if len(items) == 0 {
		fmt.Fprintln(out, "  no activities")
		return
	}
	for _, it := range items {
		when := it.Time
		if when == "" {
			when = "--:--"
		}
		fmt.Fprintf(out, "  %s  %s  [%s]\n", when, it.Title, it.ID)
		if it.Description != "" {
			fmt.Fprintf(out, "         %s\n", it.Description)
		}
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
