package model

// Catalog is the remote service's top-level container for the owner's library.
type Catalog struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Album is a named, user-curated subset of assets within a catalog.
type Album struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
