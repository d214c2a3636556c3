package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"forestfest/internal/app"
	"forestfest/internal/conflict"
	"forestfest/internal/ics"
	"forestfest/internal/lineup"
	"forestfest/internal/model"
)

func newLineupCmd() *cobra.Command {
	var stage, day string
	var favsOnly bool
	cmd := &cobra.Command{
		Use:   "lineup",
		Short: "List performances, optionally filtered by stage and day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var q lineup.Query
			if stage != "" {
				s, err := model.ParseStage(stage)
				if err != nil {
					return err
				}
				q.Stage = s
			}
			if day != "" {
				d, err := model.ParseDay(day)
				if err != nil {
					return err
				}
				q.Day = d
			}
			return withApp(cmd, func(_ context.Context, a *app.App) error {
				if favsOnly {
					q.FavoritesOnly = true
					q.FavoriteIDs = a.Favorites.IDs()
				}
				return printPerformances(cmd.OutOrStdout(), a, a.Catalog.Filter(q))
			})
		},
	}
	cmd.Flags().StringVar(&stage, "stage", "", "Stage key or label, e.g. forestFleadh")
	cmd.Flags().StringVar(&day, "day", "", "friday, saturday or sunday")
	cmd.Flags().BoolVar(&favsOnly, "favorites", false, "Only favorited performances")
	return cmd
}

func printPerformances(w io.Writer, a *app.App, perfs []model.Performance) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tDAY\tSTART\tEND\tSTAGE\tNAME\tID")
	for _, p := range perfs {
		id := a.Catalog.ID(p)
		mark := ""
		if a.Favorites.IsFavorited(id) {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", mark, p.Day.Key(), p.Start, p.End, p.Stage.Label(), p.Name, id)
	}
	return tw.Flush()
}

func newFavoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage favorited performances",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List favorites",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app.App) error {
				return printPerformances(cmd.OutOrStdout(), a, a.Favorites.Favorited())
			})
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <id>...",
		Short: "Add or remove favorites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				for _, id := range args {
					if !a.Catalog.Known(id) {
						return fmt.Errorf("unknown performance id %q", id)
					}
					on, err := a.Favorites.Toggle(ctx, id)
					if err != nil {
						return err
					}
					state := "removed"
					if on {
						state = "added"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, id)
				}
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every favorite",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Favorites.Clear(ctx)
			})
		},
	}

	var exportOut string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write favorites as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app.App) error {
				data, err := json.MarshalIndent(a.Favorites.Export(), "", "  ")
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), exportOut, append(data, '\n'))
			})
		},
	}
	export.Flags().StringVarP(&exportOut, "output", "o", "", "Output file (default stdout)")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace favorites from a JSON export or an .ics calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			ids, err := parseImport(args[0], data)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				n, err := a.Favorites.Import(ctx, ids)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d favorites\n", n, len(ids))
				return nil
			})
		},
	}

	var icsOut string
	var lead int
	icsCmd := &cobra.Command{
		Use:   "ics",
		Short: "Export favorites as an iCalendar file with alarms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app.App) error {
				minutes := a.Reminders.Settings().LeadMinutes
				if cmd.Flags().Changed("lead") {
					minutes = lead
				}
				out, err := ics.ExportFavorites(a.Favorites.Favorited(), a.Calendar, ics.ExportOptions{
					Name:        a.Config.Festival.Name + " favorites",
					LeadMinutes: minutes,
					IDs:         a.Catalog.Strategy(),
				})
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), icsOut, []byte(out))
			})
		},
	}
	icsCmd.Flags().StringVarP(&icsOut, "output", "o", "", "Output file (default stdout)")
	icsCmd.Flags().IntVar(&lead, "lead", 0, "Alarm minutes before each set (0 disables; default is the reminder lead)")

	cmd.AddCommand(list, toggle, clearCmd, export, importCmd, icsCmd)
	return cmd
}

// parseImport reads IDs from an .ics calendar or a JSON export/ID list.
func parseImport(name string, data []byte) ([]string, error) {
	if strings.EqualFold(filepath.Ext(name), ".ics") || bytes.HasPrefix(bytes.TrimSpace(data), []byte("BEGIN:VCALENDAR")) {
		return ics.ParseFavoriteIDs(bytes.NewReader(data))
	}

	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		return plain, nil
	}
	var records []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return renameio.WriteFile(path, data, 0o644)
}

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Show favorites by day with clashes marked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app.App) error {
				s := a.Catalog.Schedule(a.Favorites.IDs())
				w := cmd.OutOrStdout()
				if len(s.Days) == 0 {
					fmt.Fprintln(w, "no favorites yet")
					return nil
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, d := range s.Days {
					fmt.Fprintf(tw, "%s\n", d.Label)
					for _, e := range d.Entries {
						mark := ""
						if e.Clashing {
							mark = "CLASH"
						}
						p := e.Performance
						fmt.Fprintf(tw, "  %s-%s\t%s\t%s\t%s\t%s\n", p.Start, p.End, p.Name, p.Stage.Label(), p.Duration(), mark)
					}
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(w, "\n%d clashing performances\n", s.ClashCount)
				return nil
			})
		},
	}
}

func newConflictsCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List overlapping favorites (or the whole lineup with --all)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app.App) error {
				perfs := a.Favorites.Favorited()
				if all {
					perfs = a.Catalog.All()
				}
				pairs := conflict.FindAllOverlaps(perfs)
				w := cmd.OutOrStdout()
				for _, p := range pairs {
					fmt.Fprintf(w, "%s: %s (%s %s-%s) overlaps %s (%s %s-%s)\n",
						p.A.Day.Label(),
						p.A.Name, p.A.Stage.Label(), p.A.Start, p.A.End,
						p.B.Name, p.B.Stage.Label(), p.B.Start, p.B.End)
				}
				fmt.Fprintf(w, "%d conflicts\n", len(pairs))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Check the whole lineup instead of favorites")
	return cmd
}

func newRemindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Inspect and configure set reminders",
	}

	plan := &cobra.Command{
		Use:   "plan",
		Short: "Show the reminders that would be scheduled for the favorites",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app.App) error {
				settings := a.Reminders.Settings()
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "enabled=%t lead=%dm\n", settings.Enabled, settings.LeadMinutes)
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				loc := a.Calendar.Location()
				for _, r := range a.Reminders.Plan(a.Favorites.IDs()) {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", r.FireAt.In(loc).Format("Mon 02 Jan 15:04"), r.ID, r.Body)
				}
				return tw.Flush()
			})
		},
	}

	setEnabled := func(on bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				got, err := a.Reminders.SetEnabled(ctx, on)
				if err != nil {
					return err
				}
				if on && !got {
					return errors.New("notification permission denied; check the notifications driver")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reminders enabled=%t\n", got)
				return nil
			})
		}
	}

	enable := &cobra.Command{Use: "enable", Short: "Turn reminders on", RunE: setEnabled(true)}
	disable := &cobra.Command{Use: "disable", Short: "Turn reminders off", RunE: setEnabled(false)}

	lead := &cobra.Command{
		Use:   "lead <minutes>",
		Short: "Set how many minutes before a set the reminder fires",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid minutes %q", args[0])
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Reminders.SetLeadMinutes(ctx, minutes); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reminder lead set to %d minutes\n", minutes)
				return nil
			})
		},
	}

	cmd.AddCommand(plan, enable, disable, lead)
	return cmd
}

func newWeatherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weather",
		Short: "Fetch the festival forecast and packing tips",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if a.Weather == nil {
					return errors.New("weather is disabled: set weather.api_key or FORESTFEST_WEATHER_API_KEY")
				}
				if err := a.Weather.Refresh(ctx); err != nil {
					return err
				}
				snap := a.Weather.Snapshot()
				w := cmd.OutOrStdout()
				for _, d := range snap.Forecasts {
					fmt.Fprintf(w, "%s %s  %s  %d°C / %d°C\n", d.Icon, d.DayOfWeek, d.Condition, d.HighTemp, d.LowTemp)
				}
				if snap.FromCache {
					fmt.Fprintln(w, "(cached forecast)")
				}
				fmt.Fprintln(w)
				for _, tip := range snap.Tips {
					fmt.Fprintf(w, "- %s\n", tip)
				}
				return nil
			})
		},
	}
}

func newTimetableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timetable <day>",
		Short: "Print the stage-by-stage grid of one day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := model.ParseDay(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(_ context.Context, a *app.App) error {
				tt, err := a.Catalog.Timetable(day, a.Favorites.IDs())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "%s (%s-%s)\n", tt.Label, tt.Start, tt.End)
				for _, row := range tt.Rows {
					fmt.Fprintf(w, "\n%s\n", row.Label)
					for _, b := range row.Blocks {
						mark := " "
						switch {
						case b.Conflict:
							mark = "!"
						case b.Favorite:
							mark = "*"
						}
						fmt.Fprintf(w, " %s %s-%s  %s\n", mark, b.Start, b.End, b.Name)
					}
				}
				return nil
			})
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(conf.Redacted())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})
	return cmd
}
