package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tOgg1/reel/internal/deck"
	"github.com/tOgg1/reel/internal/logging"
	"github.com/tOgg1/reel/internal/models"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "validate <deck>",
		Aliases: []string{"check"},
		Short:   "Check a deck file and summarize it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validate(args[0])
		},
	}
}

func (a *app) validate(path string) error {
	d, err := deck.Load(path)
	if err != nil {
		var validation *models.ValidationErrors
		if !errors.As(err, &validation) {
			return err
		}
		logger := logging.Component("cli")
		logger.Debug().Str("deck", path).Strs("fields", validation.Fields()).Msg("deck failed validation")
		fmt.Fprintf(a.stderr, "%s: %d problem(s)\n", path, validation.Len())
		for _, problem := range validation.Errors {
			fmt.Fprintf(a.stderr, "  %s\n", problem.Error())
		}
		return &ExitError{Code: 1, Err: err, Printed: true}
	}

	fallback := a.cfg.Viewer.Duration
	t := newTable("USER", "NAME", "STORIES", "PLAYTIME")
	var total time.Duration
	for _, user := range d.Users {
		var playtime time.Duration
		for _, story := range user.Stories {
			playtime += story.PlaybackDuration(fallback)
		}
		total += playtime
		t.add(user.ID, user.DisplayName(), strconv.Itoa(len(user.Stories)), playtime.String())
	}
	if err := t.write(a.stdout); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "\n%d users, %d stories, %s\n", len(d.Users), d.StoryCount(), total)
	return nil
}
