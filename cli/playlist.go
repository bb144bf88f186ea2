package cli

import (
	"github.com/spf13/cobra"

	"github.com/yhkl-dev/qqm/output"
)

func (r *runner) newPlaylistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist",
		Short: "Browse playlists",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the account's playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			playlists, err := r.app.Library.Playlists(cmd.Context())
			if err != nil {
				return withCode(PlaylistError, err)
			}
			return r.app.Printer.Print(output.NewPlaylistList(playlists))
		},
	}

	var limit int
	detail := &cobra.Command{
		Use:   "detail <id>",
		Short: "Show a playlist and its tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := r.app.Library.Playlist(cmd.Context(), args[0])
			if err != nil {
				return withCode(PlaylistError, err)
			}
			return r.app.Printer.Print(output.NewPlaylistDetail(pl, limit))
		},
	}
	detail.Flags().IntVarP(&limit, "limit", "l", 50, "maximum tracks to show")

	cmd.AddCommand(list, detail)
	return cmd
}
