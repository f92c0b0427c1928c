package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tOgg1/reel/internal/config"
	"github.com/tOgg1/reel/internal/deck"
	"github.com/tOgg1/reel/internal/logging"
	"github.com/tOgg1/reel/internal/models"
	"github.com/tOgg1/reel/internal/storytui"
)

var errNoDeck = errors.New("no deck given and none played before")

type playOptions struct {
	user        string
	noAltScreen bool
}

func newPlayCmd(a *app) *cobra.Command {
	opts := &playOptions{}
	cmd := &cobra.Command{
		Use:   "play [deck]",
		Short: "Open a deck in the story viewer",
		Long: `Open a deck in the story viewer.

Without a deck argument, the deck played last is reopened at the user it
was closed on.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.user, "user", "u", "", "open the viewer at this user instead of the picker")
	cmd.Flags().BoolVar(&opts.noAltScreen, "no-alt-screen", false, "draw inline instead of on the alternate screen")
	return cmd
}

func (a *app) play(args []string, opts *playOptions) error {
	saved, err := a.store.Load()
	if err != nil {
		return err
	}

	path := ""
	if len(args) > 0 {
		path, err = filepath.Abs(args[0])
		if err != nil {
			return err
		}
	} else if !saved.IsEmpty() {
		path = saved.DeckPath
	}
	if path == "" {
		return &ExitError{Code: 2, Err: errNoDeck}
	}

	d, err := deck.Load(path)
	if err != nil {
		return err
	}

	startUser := opts.user
	if startUser == "" && saved.DeckPath == path && hasUser(d, saved.UserID) {
		startUser = saved.UserID
	}
	if startUser != "" && !hasUser(d, startUser) {
		return &ExitError{Code: 2, Err: fmt.Errorf("deck %s has no user %q", filepath.Base(path), startUser)}
	}

	if !a.interactive() {
		return &ExitError{Code: 2, Err: errors.New("play needs an interactive terminal")}
	}
	if err := a.logToFile(); err != nil {
		return err
	}
	logger := logging.Component("cli")
	logger.Info().Str("deck", path).Str("user", startUser).Int("stories", d.StoryCount()).Msg("playing deck")

	last, err := a.runViewer(storytui.Config{
		Deck:      d,
		StartUser: startUser,
		Viewer:    a.cfg.Viewer,
		Theme:     a.cfg.Theme,
		TUI:       a.tuiConfig(opts),
		Logger:    &logger,
	})
	if err != nil {
		return fmt.Errorf("viewer: %w", err)
	}

	saved.SetDeck(path, a.now())
	if last != "" {
		saved.SetUser(last, a.now())
	}
	if err := a.store.Save(saved); err != nil {
		logger.Warn().Err(err).Msg("failed to save context")
	}
	return nil
}

func (a *app) tuiConfig(opts *playOptions) config.TUIConfig {
	tui := a.cfg.TUI
	if opts.noAltScreen {
		tui.AltScreen = false
	}
	return tui
}

func hasUser(d models.Deck, id string) bool {
	if id == "" {
		return false
	}
	for _, user := range d.Users {
		if user.ID == id {
			return true
		}
	}
	return false
}
