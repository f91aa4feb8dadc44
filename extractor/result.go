package extractor

import "encoding/json"

// Result is the outcome of one extraction. It marshals to the command's JSON
// output: success carries text, pages, char_count and metadata; failure carries
// error and message.
type Result struct {
	Success   bool
	Text      string
	Pages     int
	CharCount int
	Metadata  map[string]string
	Kind      ErrorKind
	Message   string
}

// Failure builds a failed result from err.
func Failure(err error) *Result {
	return &Result{
		Kind:    KindOf(err),
		Message: err.Error(),
	}
}

type successJSON struct {
	Success   bool              `json:"success"`
	Text      string            `json:"text"`
	Pages     int               `json:"pages"`
	CharCount int               `json:"char_count"`
	Metadata  map[string]string `json:"metadata"`
}

type failureJSON struct {
	Success bool      `json:"success"`
	Error   ErrorKind `json:"error"`
	Message string    `json:"message"`
}

// MarshalJSON implements json.Marshaler.
func (r *Result) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(failureJSON{Error: r.Kind, Message: r.Message})
	}

	metadata := r.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	return json.Marshal(successJSON{
		Success:   true,
		Text:      r.Text,
		Pages:     r.Pages,
		CharCount: r.CharCount,
		Metadata:  metadata,
	})
}
