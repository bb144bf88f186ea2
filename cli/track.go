package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yhkl-dev/qqm/domain"
	"github.com/yhkl-dev/qqm/history"
	"github.com/yhkl-dev/qqm/output"
)

func (r *runner) newTrackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Inspect, download and play tracks",
	}
	cmd.AddCommand(
		r.newTrackDetailCommand(),
		r.newTrackURLCommand(),
		r.newTrackLyricCommand(),
		r.newTrackDownloadCommand(),
		r.newTrackPlayCommand(),
		r.newTrackCoverCommand(),
	)
	return cmd
}

func qualityFlag(cmd *cobra.Command, quality *string) {
	cmd.Flags().StringVarP(quality, "quality", "q", string(domain.QualityHigh), "standard, high, sq, flac or hires")
}

// resolveStream fetches the track and its stream URL
func (a *App) resolveStream(ctx context.Context, id string, quality domain.Quality) (*domain.Track, string, error) {
	track, err := a.Library.Track(ctx, id)
	if err != nil {
		return nil, "", err
	}
	url, err := a.Library.TrackURL(ctx, id, quality)
	if err != nil {
		return nil, "", err
	}
	return track, url, nil
}

func (r *runner) newTrackDetailCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detail <id>",
		Short: "Show track metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			track, err := r.app.Library.Track(cmd.Context(), args[0])
			if err != nil {
				return withCode(TrackError, err)
			}
			return r.app.Printer.Print(output.NewTrackDetail(*track))
		},
	}
}

func (r *runner) newTrackURLCommand() *cobra.Command {
	var quality string
	cmd := &cobra.Command{
		Use:   "url <id>",
		Short: "Print the stream URL of a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := domain.ParseQuality(quality)
			if err != nil {
				return err
			}
			url, err := r.app.Library.TrackURL(cmd.Context(), args[0], q)
			if err != nil {
				return withCode(TrackError, err)
			}
			return r.app.Printer.Print(&output.TrackURL{ID: args[0], URL: url, Quality: string(q)})
		},
	}
	qualityFlag(cmd, &quality)
	return cmd
}

func (r *runner) newTrackLyricCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lyric <id>",
		Short: "Print the LRC lyric of a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lyric, err := r.app.Library.Lyric(cmd.Context(), args[0])
			if err != nil {
				return withCode(TrackError, err)
			}
			return r.app.Printer.Print(output.NewLyric(args[0], lyric))
		},
	}
}

func (r *runner) newTrackDownloadCommand() *cobra.Command {
	var quality, dest string
	var noTag bool
	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Save a track to disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			q, err := domain.ParseQuality(quality)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			track, url, err := a.resolveStream(ctx, args[0], q)
			if err != nil {
				return withCode(TrackError, err)
			}

			dl := a.Downloader
			if noTag {
				dl = dl.WithoutTags()
			}
			res, err := dl.Save(ctx, track, url, dest)
			if err != nil {
				return withCode(TrackError, err)
			}
			a.Record(ctx, track, q, history.ActionDownload)

			result := &output.Download{
				ID:      track.ID,
				Path:    res.Path,
				Size:    res.Size,
				Quality: string(q),
				Tagged:  res.Tagged,
			}
			if res.Duration > 0 {
				result.Duration = domain.FormatSeconds(res.Duration.Seconds())
			}
			return a.Printer.Print(result)
		},
	}
	qualityFlag(cmd, &quality)
	cmd.Flags().StringVarP(&dest, "output", "o", "", "destination file")
	cmd.Flags().BoolVar(&noTag, "no-tag", false, "skip ID3 tagging")
	return cmd
}

func (r *runner) newTrackPlayCommand() *cobra.Command {
	var quality string
	cmd := &cobra.Command{
		Use:   "play <id>",
		Short: "Play a track in mpv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			q, err := domain.ParseQuality(quality)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			track, url, err := a.resolveStream(ctx, args[0], q)
			if err != nil {
				return withCode(PlayerError, err)
			}
			if err := a.Player.Play(ctx, url, track.Title()); err != nil {
				return withCode(PlayerError, err)
			}
			a.Record(ctx, track, q, history.ActionPlay)
			return a.Printer.Print(output.NewPlay(*track, string(q)))
		},
	}
	qualityFlag(cmd, &quality)
	return cmd
}

func (r *runner) newTrackCoverCommand() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "cover <id>",
		Short: "Render the album cover as ASCII art",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			if width <= 0 {
				return errors.Errorf("invalid width %d", width)
			}
			track, err := a.Library.Track(cmd.Context(), args[0])
			if err != nil {
				return withCode(TrackError, err)
			}
			art, err := a.CoverArt(cmd.Context(), track, width, a.Printer.Color())
			if err != nil {
				a.logger.Warnf("cover of %s: %v", track.ID, err)
			}
			return a.Printer.Print(&output.Cover{ID: track.ID, URL: track.Album.PicURL, Art: art})
		},
	}
	cmd.Flags().IntVar(&width, "width", 40, "width in characters")
	return cmd
}
