package qqmusic

// comm is the shared header block. Field order is part of the signed bytes.
type comm struct {
	CV           int    `json:"cv"`
	CT           int    `json:"ct"`
	Format       string `json:"format"`
	InCharset    string `json:"inCharset"`
	OutCharset   string `json:"outCharset"`
	Notice       int    `json:"notice"`
	Platform     string `json:"platform"`
	NeedNewCode  int    `json:"needNewCode"`
	UIN          string `json:"uin"`
	QQ           string `json:"qq"`
	AuthST       string `json:"authst"`
	TMELoginType string `json:"tmeLoginType"`
	TMEAppID     string `json:"tmeAppID"`
	GTKNew       uint32 `json:"g_tk_new_20200303"`
	GTK          uint32 `json:"g_tk"`
}

func (c *Client) header() comm {
	cookies := c.cookies()
	key := cookies["qm_keyst"]
	gtk := SessionToken(key)

	uin := cookies["wxuin"]
	if uin == "" {
		uin = cookies["uin"]
	}
	if uin == "" {
		uin = "0"
	}
	loginType := cookies["tmeLoginType"]
	if loginType == "" {
		loginType = "1"
	}

	h := comm{
		CV:           4747474,
		CT:           11,
		Format:       "json",
		InCharset:    "utf-8",
		OutCharset:   "utf-8",
		Platform:     "yqq.json",
		UIN:          uin,
		QQ:           uin,
		AuthST:       key,
		TMELoginType: loginType,
		TMEAppID:     "qqmusic",
		GTKNew:       gtk,
		GTK:          gtk,
	}
	if c.Variant == VariantCookie {
		h.CT = 24
		h.NeedNewCode = 1
	}
	return h
}
