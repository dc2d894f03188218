package lightroom

// Wire shapes for the Lightroom partner API. Responses wrap entities in a
// "resources" array; album-scoped asset listings additionally nest the asset
// under an "asset" key.

type catalogListing struct {
	Resources []catalogResource `json:"resources"`
}

type catalogResource struct {
	ID      string `json:"id"`
	Payload struct {
		Name string `json:"name"`
	} `json:"payload"`
}

type albumListing struct {
	Resources []albumResource `json:"resources"`
}

type albumResource struct {
	ID      string `json:"id"`
	Payload struct {
		Name string `json:"name"`
	} `json:"payload"`
}

type assetListing struct {
	Resources []assetResource `json:"resources"`
}

type assetResource struct {
	ID      string         `json:"id"`
	Created string         `json:"created,omitempty"`
	Updated string         `json:"updated,omitempty"`
	Payload assetPayload   `json:"payload"`
	Asset   *assetResource `json:"asset,omitempty"`
}

type assetPayload struct {
	ImportSource struct {
		FileName string `json:"fileName"`
	} `json:"importSource"`
	XMP    *assetXMP `json:"xmp,omitempty"`
	Rating *int      `json:"rating,omitempty"`
}

type assetXMP struct {
	DC struct {
		Title string `json:"title"`
	} `json:"dc"`
	XMP struct {
		Rating *int `json:"Rating"`
	} `json:"xmp"`
}

// unwrap resolves the effective asset for an album-scoped listing item.
func (r assetResource) unwrap() assetResource {
	if r.Asset != nil {
		return *r.Asset
	}
	return r
}

// rating returns the asset's star rating: the payload rating when present,
// the XMP rating otherwise, zero when neither is set.
func (r assetResource) rating() int {
	a := r.unwrap()
	if a.Payload.Rating != nil {
		return *a.Payload.Rating
	}
	if a.Payload.XMP != nil && a.Payload.XMP.XMP.Rating != nil {
		return *a.Payload.XMP.XMP.Rating
	}
	return 0
}

// caption returns the user-entered title, if any.
func (r assetResource) caption() string {
	a := r.unwrap()
	if a.Payload.XMP != nil {
		return a.Payload.XMP.DC.Title
	}
	return ""
}

func (r assetResource) fileName() string {
	return r.unwrap().Payload.ImportSource.FileName
}
