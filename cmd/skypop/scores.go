package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ayusman/skypop/internal/scores"
	"github.com/ayusman/skypop/internal/store"
)

var (
	scoresLimit  int
	scoresFlush  bool
	scoresPlayer string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the local leaderboard",
	Long: `Display the best recorded sessions from the local score history.

Sessions whose remote submission failed are marked as pending; --flush
retries them against the configured endpoint.`,
	Example: `  skypop scores
  skypop scores --limit 20
  skypop scores --player ana
  skypop scores --flush`,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&scoresLimit, "limit", "n", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&scoresFlush, "flush", false, "Retry pending submissions before listing")
	scoresCmd.Flags().StringVar(&scoresPlayer, "player", "", "Also show this player's best score")
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	pendingStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("3"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

func runScores(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()

	if scoresFlush {
		recorder := scores.NewRecorder(st, scores.NewClient(cfg.Scores.Endpoint, cfg.Scores.Timeout), logger)
		n, err := recorder.Flush(context.Background())
		if err != nil {
			logger.Warn("some submissions are still pending", "err", err)
		}
		fmt.Fprintf(out, "Submitted %d pending score(s).\n\n", n)
	}

	top, err := st.Scores().Top(scoresLimit)
	if err != nil {
		return fmt.Errorf("retrieve scores: %w", err)
	}
	fmt.Fprintln(out, renderScores(top))

	if scoresPlayer != "" {
		best, err := st.Scores().Best(scoresPlayer)
		switch {
		case err == nil:
			fmt.Fprintf(out, "\nBest for %s: %d\n", scoresPlayer, best.Score)
		case errors.Is(err, store.ErrNotFound):
			fmt.Fprintf(out, "\nNo scores recorded for %s.\n", scoresPlayer)
		default:
			return fmt.Errorf("retrieve best score: %w", err)
		}
	}
	return nil
}

// renderScores formats the leaderboard for a terminal.
func renderScores(top []*store.Score) string {
	title := titleStyle.Render("High Scores")
	if len(top) == 0 {
		return title + "\n\nNo scores recorded yet.\n" +
			faintStyle.Render("Play 'skypop play' to set the first high score!")
	}

	rows := make([][]string, 0, len(top))
	for i, s := range top {
		status := "sent"
		if !s.Submitted {
			status = "pending"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Player,
			strconv.Itoa(s.Score),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			status,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(faintStyle).
		Headers("Rank", "Player", "Score", "Date", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 4 && rows[row][4] == "pending":
				return pendingStyle
			default:
				return cellStyle
			}
		})

	return title + "\n" + t.Render()
}
