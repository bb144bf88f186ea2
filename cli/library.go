package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yhkl-dev/qqm/history"
	"github.com/yhkl-dev/qqm/output"
)

func (r *runner) newLibraryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Liked tracks, listening history and local history",
	}
	cmd.AddCommand(
		r.newLikedCommand(),
		r.newLikeCommand("like", true),
		r.newLikeCommand("unlike", false),
		r.newRecentCommand(),
		r.newHistoryCommand(),
	)
	return cmd
}

func (r *runner) newLikedCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "liked",
		Short: "List liked tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			ids, err := a.Library.LikedTrackIDs(cmd.Context())
			if err != nil {
				return withCode(LibraryError, err)
			}
			total := len(ids)
			if limit > 0 && len(ids) > limit {
				ids = ids[:limit]
			}
			tracks := a.Library.Tracks(cmd.Context(), ids)
			return a.Printer.Print(&output.TrackList{
				Tracks:  output.NewTrackRows(tracks),
				Total:   total,
				Showing: len(tracks),
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "maximum tracks to resolve")
	return cmd
}

func (r *runner) newLikeCommand(use string, like bool) *cobra.Command {
	short, done := "Like a track", "Liked "
	if !like {
		short, done = "Remove a track from liked", "Unliked "
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			if err := a.Library.Like(cmd.Context(), args[0], like); err != nil {
				return withCode(LibraryError, err)
			}
			return a.Printer.Print(&output.Like{
				Notice:  output.Notice{Message: done + args[0]},
				TrackID: args[0],
			})
		},
	}
}

func (r *runner) newRecentCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently played tracks of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracks, err := r.app.Library.RecentTracks(cmd.Context(), limit)
			if err != nil {
				return withCode(LibraryError, err)
			}
			return r.app.Printer.Print(&output.TrackList{Tracks: output.NewTrackRows(tracks), Total: len(tracks)})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "maximum tracks")
	return cmd
}

func (r *runner) newHistoryCommand() *cobra.Command {
	var limit int
	var top bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List tracks played or downloaded on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			store, err := a.History()
			if err != nil {
				return withCode(LibraryError, err)
			}
			if store == nil {
				return withCode(LibraryError, errors.New("local history is disabled (history.enabled = false)"))
			}

			result := &output.History{}
			if top {
				var entries []history.TopEntry
				entries, err = store.MostPlayed(cmd.Context(), limit)
				result.Top, result.Total = entries, len(entries)
			} else {
				var entries []history.Entry
				entries, err = store.Recent(cmd.Context(), limit)
				result.Entries, result.Total = entries, len(entries)
			}
			if err != nil {
				return withCode(LibraryError, err)
			}
			return a.Printer.Print(result)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum entries")
	cmd.Flags().BoolVar(&top, "top", false, "rank tracks by play count")
	return cmd
}
