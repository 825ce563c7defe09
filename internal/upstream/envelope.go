package upstream

import "encoding/json"

// The upstream does not use one response shape. Some endpoints wrap the
// payload in {status, data}, some return it bare, and the monitoring
// listings use Laravel pagination ({data: {data: [...], last_page}}).
// Each endpoint method picks the adapter matching its actual shape so
// the rest of the application never sees the difference.

// statusEnvelope is the {status, data} wrapper.
type statusEnvelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// unwrapStatus decodes a {status, data} response into target. Responses
// without the wrapper (bare payloads) decode as-is.
func unwrapStatus(raw json.RawMessage, target any) error {
	var env statusEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, target)
	}
	return json.Unmarshal(raw, target)
}

// laravelPage is one page of a Laravel-paginated listing.
type laravelPage struct {
	Data struct {
		Data        []json.RawMessage `json:"data"`
		CurrentPage int               `json:"current_page"`
		LastPage    int               `json:"last_page"`
	} `json:"data"`
}
