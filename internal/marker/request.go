package marker

import (
	"bytes"
	"encoding/json"

	"github.com/woozymasta/usmap/internal/errs"
)

// Request is the payload a map client sends: the marker list plus optional
// icon settings. Icon data is passed along to the renderer untouched.
type Request struct {
	MarkerData json.RawMessage `json:"marker_data"`
	IconData   map[string]any  `json:"icon_data,omitempty"`
}

// ImageURL returns icon_data.image_url, or "" when unset.
func (r *Request) ImageURL() string {
	if s, ok := r.IconData["image_url"].(string); ok {
		return s
	}
	return ""
}

// ParseRequest decodes a request envelope and validates its markers.
func ParseRequest(raw []byte) (*Request, []Input, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, nil, errs.InvalidMarker(errs.ReasonNotRecords, "", "request body is not a JSON object")
	}

	if len(req.MarkerData) == 0 || string(bytes.TrimSpace(req.MarkerData)) == "null" {
		return nil, nil, errs.InvalidMarker(errs.ReasonEmpty, "", "no marker data provided")
	}

	inputs, err := Parse(req.MarkerData)
	if err != nil {
		return nil, nil, err
	}

	return &req, inputs, nil
}
