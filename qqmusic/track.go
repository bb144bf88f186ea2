package qqmusic

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
)

const defaultStreamHost = "https://dl.stream.qqmusic.qq.com/"

// FileType is the filename prefix and extension for a quality level
type FileType struct {
	Prefix string
	Ext    string
}

// M500 = 128kbps MP3, M800 = 320kbps MP3, F000 = FLAC, RS01 = HiRes FLAC
var fileTypes = map[string]FileType{
	"standard": {"M500", ".mp3"},
	"high":     {"M800", ".mp3"},
	"sq":       {"F000", ".flac"},
	"flac":     {"F000", ".flac"},
	"hires":    {"RS01", ".flac"},
}

// FileTypeFor returns the FileType for a quality name
func FileTypeFor(quality string) (FileType, bool) {
	ft, ok := fileTypes[quality]
	return ft, ok
}

// SongDetail fetches the track_info of a song mid
func (c *Client) SongDetail(ctx context.Context, mid string) (*Song, error) {
	var data struct {
		TrackInfo *Song `json:"track_info"`
	}
	err := c.call(ctx, Call{
		Module: "music.pf_song_detail_svr",
		Method: "get_song_detail_yqq",
		Param:  Param{"song_mid": mid, "song_type": 0},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.TrackInfo == nil || data.TrackInfo.Mid == "" {
		return nil, &Error{Kind: KindApplication, Message: fmt.Sprintf("Track %s not found", mid)}
	}
	return data.TrackInfo, nil
}

// SongURL resolves a playable stream URL for mid at the given quality
func (c *Client) SongURL(ctx context.Context, mid, quality string) (string, error) {
	ft, ok := FileTypeFor(quality)
	if !ok {
		return "", errors.Errorf("unsupported quality %q", quality)
	}

	var data struct {
		MidURLInfo []struct {
			SongMid string `json:"songmid"`
			Purl    string `json:"purl"`
		} `json:"midurlinfo"`
		Sip []string `json:"sip"`
	}
	err := c.call(ctx, Call{
		Module: "music.vkey.GetVkey",
		Method: "UrlGetVkey",
		Param: Param{
			"songmid":  []string{mid},
			"songtype": []int{0},
			"filename": []string{ft.Prefix + mid + mid + ft.Ext},
			"guid":     guid(),
			"platform": "20",
		},
	}, &data)
	if err != nil {
		return "", err
	}

	if len(data.MidURLInfo) == 0 || data.MidURLInfo[0].Purl == "" {
		return "", ErrUnavailable
	}
	host := defaultStreamHost
	if len(data.Sip) > 0 && data.Sip[0] != "" {
		host = data.Sip[0]
	}
	return host + data.MidURLInfo[0].Purl, nil
}

// Lyric fetches the base64 encoded lyric and translation of mid
func (c *Client) Lyric(ctx context.Context, mid string) (*LyricInfo, error) {
	var data LyricInfo
	err := c.call(ctx, Call{
		Module: "music.musichallSong.PlayLyricInfo",
		Method: "GetPlayLyricInfo",
		Param:  Param{"songMID": mid, "songID": 0},
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func guid() string {
	return fmt.Sprintf("%d", rand.Int63n(10_000_000_000))
}
