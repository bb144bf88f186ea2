package library

import (
	"context"

	"github.com/yhkl-dev/qqm/domain"
)

// Library is the domain view of the remote catalogue and the account's
// collection. Implementations convert wire shapes into domain values.
type Library interface {
	Track(ctx context.Context, id string) (*domain.Track, error)
	// Tracks resolves ids one by one. Ids that fail are left out.
	Tracks(ctx context.Context, ids []string) []domain.Track
	TrackURL(ctx context.Context, id string, quality domain.Quality) (string, error)
	Lyric(ctx context.Context, id string) (*domain.Lyric, error)

	Search(ctx context.Context, query string, searchType domain.SearchType, limit, offset int) (*domain.SearchResult, error)

	Profile(ctx context.Context) (*domain.UserProfile, error)
	LikedTrackIDs(ctx context.Context) ([]string, error)
	Like(ctx context.Context, id string, like bool) error
	RecentTracks(ctx context.Context, limit int) ([]domain.Track, error)

	Playlist(ctx context.Context, id string) (*domain.Playlist, error)
	Playlists(ctx context.Context) ([]domain.Playlist, error)
}
