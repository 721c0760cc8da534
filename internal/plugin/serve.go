package plugin

import (
	"encoding/json"
	"fmt"
	"io"
)

// Handler runs one plugin action. A non-nil result is returned to the caller
// as the response data.
type Handler func(params json.RawMessage) (any, error)

// Serve is the plugin side of the protocol: it reads one Request from r,
// runs the matching handler and writes one Response to w. Failures are
// reported in the Response; the returned error is only for a failed write.
func Serve(r io.Reader, w io.Writer, handlers map[string]Handler) error {
	resp := handle(r, handlers)
	return json.NewEncoder(w).Encode(resp)
}

func handle(r io.Reader, handlers map[string]Handler) Response {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return Response{Error: fmt.Sprintf("failed to decode request: %v", err)}
	}

	handler, ok := handlers[req.Action]
	if !ok {
		return Response{Error: fmt.Sprintf("unknown action: %s", req.Action)}
	}

	result, err := handler(req.Params)
	if err != nil {
		return Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)}
	}

	resp := Response{Success: true}
	if result != nil {
		data, err := json.Marshal(result)
		if err != nil {
			return Response{Error: fmt.Sprintf("encode %s result: %v", req.Action, err)}
		}
		resp.Data = data
	}
	return resp
}
