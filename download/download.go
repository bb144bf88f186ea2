package download

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bogem/id3v2"
	"github.com/hajimehoshi/go-mp3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/yhkl-dev/qqm/domain"
)

// Fetcher streams a URL to a file and returns the bytes written
type Fetcher interface {
	Download(ctx context.Context, url, dest string) (int64, error)
}

// Result describes a finished download
type Result struct {
	Path     string        `json:"path"`
	Size     int64         `json:"size"`
	Tagged   bool          `json:"tagged"`
	Duration time.Duration `json:"-"`
}

// Downloader saves tracks to disk and tags MP3s with ID3v2 metadata
type Downloader struct {
	fetcher Fetcher
	dir     string
	tag     bool
	logger  *log.Entry
}

func New(fetcher Fetcher, dir string, tag bool) *Downloader {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Downloader{
		fetcher: fetcher,
		dir:     dir,
		tag:     tag,
		logger: log.WithFields(log.Fields{
			"module": "download",
		}),
	}
}

// WithoutTags returns a copy of d that leaves files untagged
func (d *Downloader) WithoutTags() *Downloader {
	c := *d
	c.tag = false
	return &c
}

// Ext guesses the file extension from a stream URL
func Ext(url string) string {
	if strings.Contains(url, ".flac") {
		return "flac"
	}
	return "mp3"
}

// DefaultPath is <dir>/qqm-<id>.<ext>
func (d *Downloader) DefaultPath(id, url string) string {
	return filepath.Join(d.dir, "qqm-"+id+"."+Ext(url))
}

// Save downloads url for track to dest, or to DefaultPath when dest is empty
func (d *Downloader) Save(ctx context.Context, track *domain.Track, url, dest string) (*Result, error) {
	if dest == "" {
		dest = d.DefaultPath(track.ID, url)
	}
	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "failed to create %s", dir)
		}
	}

	d.logger.Infof("Downloading %s to %s", track.ID, dest)
	size, err := d.fetcher.Download(ctx, url, dest)
	if err != nil {
		return nil, err
	}
	result := &Result{Path: dest, Size: size}

	if Ext(url) != "mp3" {
		return result, nil
	}
	if dur, err := Duration(dest); err != nil {
		d.logger.Debugf("probe duration: %v", err)
	} else {
		result.Duration = dur
	}
	if d.tag {
		if err := Tag(dest, track, result.Duration); err != nil {
			d.logger.Warnf("failed to tag %s: %v", dest, err)
		} else {
			result.Tagged = true
		}
	}
	return result, nil
}

// Duration decodes the MP3 headers at path to compute its length
func Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, errors.Wrap(err, "not an mp3 stream")
	}
	samples := dec.Length() / 4 // 16-bit stereo
	if samples <= 0 || dec.SampleRate() == 0 {
		return 0, errors.New("unknown mp3 length")
	}
	return time.Duration(samples) * time.Second / time.Duration(dec.SampleRate()), nil
}

// Tag writes title, artist, album and source frames into the file at path
func Tag(path string, track *domain.Track, length time.Duration) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return errors.Wrap(err, "failed to open file for tagging")
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if track.Name != "" {
		tag.SetTitle(track.Name)
	}
	if artists := track.ArtistNames(", "); artists != "" {
		tag.SetArtist(artists)
	}
	if track.Album.Name != "" {
		tag.SetAlbum(track.Album.Name)
	}
	if length > 0 {
		tag.AddFrame("TLEN", id3v2.TextFrame{
			Encoding: tag.DefaultEncoding(),
			Text:     strconv.FormatInt(length.Milliseconds(), 10),
		})
	}
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    tag.DefaultEncoding(),
		Language:    "eng",
		Description: "source",
		Text:        track.URI,
	})

	if err := tag.Save(); err != nil {
		return errors.Wrap(err, "failed to save tags")
	}
	return nil
}
