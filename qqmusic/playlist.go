package qqmusic

import "context"

// PlaylistDetail fetches a playlist with all of its songs
func (c *Client) PlaylistDetail(ctx context.Context, id int64) (*DissInfo, error) {
	var data DissInfo
	err := c.call(ctx, Call{
		Module: "music.srfDissInfo.aiDissInfo",
		Method: "uniform_get_Ede_Diss_info",
		Param: Param{
			"disstid":      id,
			"onlysonglist": 0,
			"song_begin":   0,
			"song_num":     100000,
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// UserPlaylists lists playlists created by the logged-in account
func (c *Client) UserPlaylists(ctx context.Context) ([]DissItem, error) {
	var data struct {
		DissList []DissItem `json:"disslist"`
	}
	err := c.call(ctx, Call{
		Module: "music.srfDissInfo.aiDissInfo",
		Method: "uniform_get_homepage_diss_list",
		Param:  Param{},
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.DissList, nil
}
