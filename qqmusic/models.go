package qqmusic

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID accepts identifiers the service sends either as JSON numbers or strings
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

type Singer struct {
	Mid  string `json:"mid"`
	Name string `json:"name"`
}

type SongAlbum struct {
	Mid  string `json:"mid"`
	Name string `json:"name"`
	Pmid string `json:"pmid"`
}

// Song is the track shape shared by detail, search, favourite and playlist responses
type Song struct {
	Mid      string    `json:"mid"`
	Name     string    `json:"name"`
	Singer   []Singer  `json:"singer"`
	Album    SongAlbum `json:"album"`
	Interval int       `json:"interval"` // in seconds
}

type SearchAlbum struct {
	AlbumMID  string `json:"albumMID"`
	AlbumName string `json:"albumName"`
	AlbumPic  string `json:"albumPic"`
}

type SearchArtist struct {
	SingerMID  string `json:"singerMID"`
	SingerName string `json:"singerName"`
}

type DissCreator struct {
	EncryptUIN string `json:"encrypt_uin"`
	Name       string `json:"name"`
}

type SearchPlaylist struct {
	DissID       ID           `json:"dissid"`
	DissName     string       `json:"dissname"`
	Introduction string       `json:"introduction"`
	ImgURL       string       `json:"imgurl"`
	SongCount    int          `json:"song_count"`
	Creator      *DissCreator `json:"creator"`
}

// SearchData is the data block of DoSearchForQQMusicDesktop
type SearchData struct {
	Body struct {
		Song     struct{ List []Song }           `json:"song"`
		Album    struct{ List []SearchAlbum }    `json:"album"`
		SongList struct{ List []SearchPlaylist } `json:"songlist"`
		Singer   struct{ List []SearchArtist }   `json:"singer"`
	} `json:"body"`
	Meta struct {
		Sum         int `json:"sum"`
		EstimateSum int `json:"estimate_sum"`
	} `json:"meta"`
}

// Total prefers the estimated total, as the web client does
func (d *SearchData) Total() int {
	if d.Meta.EstimateSum != 0 {
		return d.Meta.EstimateSum
	}
	return d.Meta.Sum
}

type Homepage struct {
	Creator struct {
		EncryptUIN string `json:"encrypt_uin"`
		Nick       string `json:"nick"`
		HeadPic    string `json:"headpic"`
	} `json:"creator"`
}

type DirInfo struct {
	ID      ID           `json:"id"`
	Title   string       `json:"title"`
	Desc    string       `json:"desc"`
	PicURL  string       `json:"picurl"`
	SongNum int          `json:"songnum"`
	Creator *DissCreator `json:"creator"`
}

// DissInfo is the data block of uniform_get_Ede_Diss_info
type DissInfo struct {
	DirInfo  DirInfo `json:"dirinfo"`
	SongList []Song  `json:"songlist"`
	TotalNum int     `json:"totalnum"`
}

type DissItem struct {
	TID       ID     `json:"tid"`
	DissName  string `json:"diss_name"`
	DissCover string `json:"diss_cover"`
	SongCnt   int    `json:"song_cnt"`
	ListenNum int    `json:"listen_num"`
}

type PlayRecord struct {
	UnPlayTime int64 `json:"unPlayTime"`
	SongInfo   Song  `json:"stSongInfo"`
}

// LyricInfo holds base64 encoded lyric payloads
type LyricInfo struct {
	Lyric string `json:"lyric"`
	Trans string `json:"trans"`
}

// ParsePlaylistID converts a playlist id argument to the numeric disstid
func ParsePlaylistID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}
