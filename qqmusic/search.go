package qqmusic

import "context"

// Search types understood by DoSearchForQQMusicDesktop
const (
	SearchTypeSong     = 0
	SearchTypeSinger   = 1
	SearchTypeAlbum    = 2
	SearchTypePlaylist = 3
)

// Search runs a desktop search. page starts at 1.
func (c *Client) Search(ctx context.Context, query string, searchType, page, perPage int) (*SearchData, error) {
	var data SearchData
	err := c.call(ctx, Call{
		Module: "music.search.SearchCgiService",
		Method: "DoSearchForQQMusicDesktop",
		Param: Param{
			"query":        query,
			"page_num":     page,
			"num_per_page": perPage,
			"search_type":  searchType,
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}
