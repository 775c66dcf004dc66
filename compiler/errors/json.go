package errors

import "encoding/json"

// ToJSON encodes a diagnostic list for the --json CLI flag and the
// dev-server HTTP API.
func ToJSON(errs []CompilerError) ([]byte, error) {
	return json.MarshalIndent(struct {
		Success bool            `json:"success"`
		Errors  []CompilerError `json:"errors"`
	}{Success: len(errs) == 0, Errors: errs}, "", "  ")
}
