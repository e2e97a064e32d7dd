package pipeline

import "github.com/bgraf/coordextract/gpx"

// Info describes a GPX document.
type Info struct {
	*gpx.Summary
	// Points is the schema point count of the summary.
	Points int `json:"points"`
	// Extracted counts the point elements found anywhere in the document.
	Extracted int    `json:"extracted"`
	Namespace string `json:"namespace"`
	// SchemaVersion is the GPX version implied by the namespace, which
	// may disagree with the version attribute.
	SchemaVersion string `json:"schemaVersion,omitempty"`
}

// Describe summarizes a GPX document. Extracted may exceed Points for
// documents that place points outside their usual parents.
func Describe(data []byte) (*Info, error) {
	summary, err := gpx.Summarize(data)
	if err != nil {
		return nil, err
	}

	x, err := gpx.Extract(data)
	if err != nil {
		return nil, err
	}

	return &Info{
		Summary:       summary,
		Points:        summary.Points(),
		Extracted:     x.Len(),
		Namespace:     x.Namespace,
		SchemaVersion: x.Version(),
	}, nil
}
