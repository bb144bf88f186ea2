package qqmusic

import "context"

// Homepage returns the profile of the logged-in account
func (c *Client) Homepage(ctx context.Context) (*Homepage, error) {
	var data Homepage
	err := c.call(ctx, Call{
		Module: "music.UnLoginModule.MyHomepage",
		Method: "MyHomepage",
		Param:  Param{},
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// FavoriteSongs lists up to 1000 liked songs
func (c *Client) FavoriteSongs(ctx context.Context) ([]Song, error) {
	var data DissInfo
	err := c.call(ctx, Call{
		Module: "music.srfDissInfo.aiDissInfo",
		Method: "uniform_get_Ede_Diss_info",
		Param: Param{
			"onlysonglist": 1,
			"disstid":      0,
			"song_begin":   0,
			"song_num":     1000,
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.SongList, nil
}

// SetFavorite adds or removes mid from the liked songs
func (c *Client) SetFavorite(ctx context.Context, mid string, like bool) error {
	method := "AddSongFav"
	if !like {
		method = "RemoveSongFav"
	}
	return c.call(ctx, Call{
		Module: "music.musicasset.SongFavRead",
		Method: method,
		Param:  Param{"songmid": []string{mid}},
	}, nil)
}

// RecentPlays returns the server-side play history
func (c *Client) RecentPlays(ctx context.Context, num int) ([]PlayRecord, error) {
	var data struct {
		VecPlayRecord []PlayRecord `json:"vecPlayRecord"`
	}
	err := c.call(ctx, Call{
		Module: "music.musichallSong.RecentPlayList",
		Method: "GetRecentPlayList",
		Param:  Param{"begin": 0, "num": num},
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.VecPlayRecord, nil
}
