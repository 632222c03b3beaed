package domain

// Feature is a named, detectable unit of web-platform syntax or API usage.
type Feature struct {
	// Description is a short explanation of the feature.
	Description string `json:"description,omitempty" msgpack:"description,omitempty"`
	// ID is the unique registry key (e.g., "optional-chaining").
	ID string `json:"id" msgpack:"id"`
	// Name is the display name.
	Name string `json:"name" msgpack:"name"`
	// ReferenceURL points to reference documentation, usually MDN.
	ReferenceURL string `json:"referenceUrl,omitempty" msgpack:"referenceUrl,omitempty"`
	// SpecURLs lists the specifications defining the feature.
	SpecURLs []string `json:"specUrls,omitempty" msgpack:"specUrls,omitempty"`
	// Status is the Baseline support record.
	Status BaselineStatus `json:"status" msgpack:"status"`
}
