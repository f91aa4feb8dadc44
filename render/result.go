package render

import (
	"encoding/json"
	"errors"
)

// Result is the outcome of one render.
type Result struct {
	Success    bool
	OutputPath string
	Width      int
	Height     int
	Message    string
}

// Failure builds a failed result from err.
func Failure(err error) *Result {
	msg := err.Error()
	if errors.Is(err, ErrNoPages) {
		msg = noPagesMessage
	}
	return &Result{Message: msg}
}

type successJSON struct {
	Success    bool   `json:"success"`
	OutputPath string `json:"output_path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

type failureJSON struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MarshalJSON implements json.Marshaler.
func (r *Result) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(failureJSON{Message: r.Message})
	}
	return json.Marshal(successJSON{
		Success:    true,
		OutputPath: r.OutputPath,
		Width:      r.Width,
		Height:     r.Height,
	})
}
