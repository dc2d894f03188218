package dto

// TokenResponse is the raw response of the IMS token endpoint, returned to
// callers of the exchange/refresh operations for informational logging.
type TokenResponse struct {
	AccessToken      string `json:"access_token,omitempty"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	TokenType        string `json:"token_type,omitempty"`
	ExpiresIn        int64  `json:"expires_in,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// AssetListRequest holds the query options for listing catalog assets.
// Only provided fields become query parameters; the url tags are consumed
// by go-querystring.
type AssetListRequest struct {
	Limit   int    `json:"limit,omitempty" url:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty" url:"offset,omitempty"`
	Subtype string `json:"subtype,omitempty" url:"subtype,omitempty"`
	AlbumID string `json:"album_id,omitempty" url:"-"`
}

// PhotoListRequest is the option set for the aggregate photo listing.
type PhotoListRequest struct {
	MinRating    int     `json:"min_rating,omitempty" form:"min_rating"`
	AlbumID      string  `json:"album_id,omitempty" form:"album_id"`
	AlbumName    string  `json:"album_name,omitempty" form:"album_name"`
	Subtype      string  `json:"subtype,omitempty" form:"subtype"`
	Limit        int     `json:"limit,omitempty" form:"limit"`
	Offset       int     `json:"offset,omitempty" form:"offset"`
	DefaultPrice float64 `json:"default_price,omitempty" form:"default_price"`
}

// Rendition carries one asset rendition's image bytes and declared content type.
type Rendition struct {
	Bytes       []byte `json:"-"`
	ContentType string `json:"content_type"`
}
