package model

// Photo is the storefront's representation of a sellable photograph,
// whether it came from the connected Lightroom catalog or the local
// fallback store.
type Photo struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	URL      string        `json:"url"`
	Price    float64       `json:"price"`
	Metadata PhotoMetadata `json:"metadata"`
}

type PhotoMetadata struct {
	FileName  string `json:"file_name,omitempty"`
	Created   string `json:"created,omitempty"`
	Updated   string `json:"updated,omitempty"`
	CatalogID string `json:"catalog_id,omitempty"`
}
