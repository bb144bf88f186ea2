package library

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/iter"
	"github.com/yhkl-dev/qqm/domain"
	"github.com/yhkl-dev/qqm/qqmusic"
)

// BatchSize bounds concurrent lookups in Tracks
const BatchSize = 10

const coverURLFormat = "https://y.gtimg.cn/music/photo_new/T002R300x300M000%s.jpg"

// ErrInvalidPlaylistID is returned for playlist ids that are not numeric
var ErrInvalidPlaylistID = errors.New("invalid playlist id")

var searchTypes = map[domain.SearchType]int{
	domain.SearchTrack:    qqmusic.SearchTypeSong,
	domain.SearchArtist:   qqmusic.SearchTypeSinger,
	domain.SearchAlbum:    qqmusic.SearchTypeAlbum,
	domain.SearchPlaylist: qqmusic.SearchTypePlaylist,
}

// api is the part of *qqmusic.Client the library uses
type api interface {
	SongDetail(ctx context.Context, mid string) (*qqmusic.Song, error)
	SongURL(ctx context.Context, mid, quality string) (string, error)
	Lyric(ctx context.Context, mid string) (*qqmusic.LyricInfo, error)
	Search(ctx context.Context, query string, searchType, page, perPage int) (*qqmusic.SearchData, error)
	Homepage(ctx context.Context) (*qqmusic.Homepage, error)
	FavoriteSongs(ctx context.Context) ([]qqmusic.Song, error)
	SetFavorite(ctx context.Context, mid string, like bool) error
	RecentPlays(ctx context.Context, num int) ([]qqmusic.PlayRecord, error)
	PlaylistDetail(ctx context.Context, id int64) (*qqmusic.DissInfo, error)
	UserPlaylists(ctx context.Context) ([]qqmusic.DissItem, error)
}

var _ Library = (*QQMusicLibrary)(nil)

// QQMusicLibrary implements Library on top of the musicu.fcg RPC client
type QQMusicLibrary struct {
	client api
	logger *log.Entry
}

func NewQQMusicLibrary(client *qqmusic.Client) *QQMusicLibrary {
	return newLibrary(client)
}

func newLibrary(client api) *QQMusicLibrary {
	return &QQMusicLibrary{
		client: client,
		logger: log.WithFields(log.Fields{
			"module": "library",
		}),
	}
}

func (l *QQMusicLibrary) Track(ctx context.Context, id string) (*domain.Track, error) {
	song, err := l.client.SongDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	track := convertToDomainTrack(*song)
	return &track, nil
}

// Tracks looks ids up in batches of BatchSize. Lookups inside a batch run
// concurrently and a failed lookup only drops its own id.
func (l *QQMusicLibrary) Tracks(ctx context.Context, ids []string) []domain.Track {
	tracks := make([]domain.Track, 0, len(ids))
	mapper := iter.Mapper[string, *domain.Track]{MaxGoroutines: BatchSize}

	for start := 0; start < len(ids); start += BatchSize {
		end := min(start+BatchSize, len(ids))
		batch := mapper.Map(ids[start:end], func(id *string) *domain.Track {
			track, err := l.Track(ctx, *id)
			if err != nil {
				l.logger.Debugf("skip track %s: %v", *id, err)
				return nil
			}
			return track
		})
		for _, t := range batch {
			if t != nil {
				tracks = append(tracks, *t)
			}
		}
	}
	return tracks
}

func (l *QQMusicLibrary) TrackURL(ctx context.Context, id string, quality domain.Quality) (string, error) {
	return l.client.SongURL(ctx, id, string(quality))
}

func (l *QQMusicLibrary) Lyric(ctx context.Context, id string) (*domain.Lyric, error) {
	info, err := l.client.Lyric(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Lyric{
		LRC:         decodeLyric(info.Lyric),
		Translation: decodeLyric(info.Trans),
	}, nil
}

func decodeLyric(s string) string {
	if s == "" {
		return ""
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return s
	}
	return string(b)
}

// Search fetches one page. offset is rounded down to a page boundary.
func (l *QQMusicLibrary) Search(ctx context.Context, query string, searchType domain.SearchType, limit, offset int) (*domain.SearchResult, error) {
	remoteType, ok := searchTypes[searchType]
	if !ok {
		return nil, errors.Errorf("unsupported search type %q", searchType)
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	data, err := l.client.Search(ctx, query, remoteType, offset/limit+1, limit)
	if err != nil {
		return nil, err
	}

	result := &domain.SearchResult{
		Type:   searchType,
		Total:  data.Total(),
		Offset: offset,
		Limit:  limit,
	}
	switch searchType {
	case domain.SearchTrack:
		result.Tracks = convertToDomainTracks(data.Body.Song.List)
	case domain.SearchAlbum:
		result.Albums = make([]domain.Album, 0, len(data.Body.Album.List))
		for _, a := range data.Body.Album.List {
			result.Albums = append(result.Albums, domain.Album{ID: a.AlbumMID, Name: a.AlbumName, PicURL: a.AlbumPic})
		}
	case domain.SearchPlaylist:
		result.Playlists = make([]domain.Playlist, 0, len(data.Body.SongList.List))
		for _, p := range data.Body.SongList.List {
			result.Playlists = append(result.Playlists, domain.Playlist{
				ID:          p.DissID.String(),
				Name:        p.DissName,
				Description: p.Introduction,
				CoverURL:    p.ImgURL,
				TrackCount:  p.SongCount,
				Creator:     convertCreator(p.Creator),
			})
		}
	case domain.SearchArtist:
		result.Artists = make([]domain.Artist, 0, len(data.Body.Singer.List))
		for _, a := range data.Body.Singer.List {
			result.Artists = append(result.Artists, domain.Artist{ID: a.SingerMID, Name: a.SingerName})
		}
	}
	return result, nil
}

func (l *QQMusicLibrary) Profile(ctx context.Context) (*domain.UserProfile, error) {
	home, err := l.client.Homepage(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.UserProfile{
		ID:        home.Creator.EncryptUIN,
		Nickname:  home.Creator.Nick,
		AvatarURL: home.Creator.HeadPic,
	}, nil
}

func (l *QQMusicLibrary) LikedTrackIDs(ctx context.Context) ([]string, error) {
	songs, err := l.client.FavoriteSongs(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(songs))
	for _, s := range songs {
		ids = append(ids, s.Mid)
	}
	return ids, nil
}

func (l *QQMusicLibrary) Like(ctx context.Context, id string, like bool) error {
	return l.client.SetFavorite(ctx, id, like)
}

func (l *QQMusicLibrary) RecentTracks(ctx context.Context, limit int) ([]domain.Track, error) {
	records, err := l.client.RecentPlays(ctx, limit)
	if err != nil {
		return nil, err
	}
	tracks := make([]domain.Track, 0, len(records))
	for _, r := range records {
		tracks = append(tracks, convertToDomainTrack(r.SongInfo))
	}
	return tracks, nil
}

func (l *QQMusicLibrary) Playlist(ctx context.Context, id string) (*domain.Playlist, error) {
	disstid, err := qqmusic.ParsePlaylistID(id)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPlaylistID, "%q", id)
	}
	info, err := l.client.PlaylistDetail(ctx, disstid)
	if err != nil {
		return nil, err
	}
	dir := info.DirInfo
	return &domain.Playlist{
		ID:          dir.ID.String(),
		Name:        dir.Title,
		Description: dir.Desc,
		CoverURL:    dir.PicURL,
		TrackCount:  dir.SongNum,
		Creator:     convertCreator(dir.Creator),
		Tracks:      convertToDomainTracks(info.SongList),
	}, nil
}

func (l *QQMusicLibrary) Playlists(ctx context.Context) ([]domain.Playlist, error) {
	items, err := l.client.UserPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	playlists := make([]domain.Playlist, 0, len(items))
	for _, p := range items {
		playlists = append(playlists, domain.Playlist{
			ID:         p.TID.String(),
			Name:       p.DissName,
			CoverURL:   p.DissCover,
			TrackCount: p.SongCnt,
		})
	}
	return playlists, nil
}

func convertCreator(c *qqmusic.DissCreator) *domain.Creator {
	if c == nil {
		return nil
	}
	return &domain.Creator{ID: c.EncryptUIN, Name: c.Name}
}

func convertToDomainTracks(songs []qqmusic.Song) []domain.Track {
	tracks := make([]domain.Track, len(songs))
	for i, song := range songs {
		tracks[i] = convertToDomainTrack(song)
	}
	return tracks
}

func convertToDomainTrack(song qqmusic.Song) domain.Track {
	artists := make([]domain.Artist, len(song.Singer))
	for i, s := range song.Singer {
		artists[i] = domain.Artist{ID: s.Mid, Name: s.Name}
	}

	album := domain.Album{
		ID:   song.Album.Mid,
		Name: song.Album.Name,
	}
	if song.Album.Pmid != "" {
		album.PicURL = fmt.Sprintf(coverURLFormat, song.Album.Pmid)
	}

	return domain.Track{
		ID:       song.Mid,
		Name:     song.Name,
		Artists:  artists,
		Album:    album,
		Duration: int64(song.Interval) * 1000,
		URI:      "qqmusic:track:" + song.Mid,
	}
}
