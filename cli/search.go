package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/yhkl-dev/qqm/domain"
	"github.com/yhkl-dev/qqm/output"
)

func (r *runner) newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search tracks, albums, playlists and artists",
	}
	for _, t := range domain.SearchTypes {
		cmd.AddCommand(r.newSearchTypeCommand(t))
	}
	return cmd
}

func (r *runner) newSearchTypeCommand(searchType domain.SearchType) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   string(searchType) + " <keyword>",
		Short: "Search " + string(searchType) + "s",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			query := strings.Join(args, " ")
			result, err := a.Library.Search(cmd.Context(), query, searchType, limit, offset)
			if err != nil {
				return withCode(SearchError, err)
			}
			return a.Printer.Print(output.Search{SearchResult: result})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "results per page")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "results to skip")
	return cmd
}
