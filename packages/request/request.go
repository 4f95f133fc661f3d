package request

import "encoding/json"

// Header is one entry of a request's ordered header list.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Request is the canonical model of a single call. Method, URL, header
// values, and body may contain {{VAR}} placeholders. Header keys are unique
// and keep insertion order; editing an existing key overwrites its value in
// place (last write wins).
type Request struct {
	Method   string
	URL      string
	Body     string
	Metadata map[string]string

	headers []Header
}

func New(method, url string) *Request {
	return &Request{
		Method: method,
		URL:    url,
	}
}

// SetHeader adds or overwrites a header, preserving the original position
// of an existing key.
func (r *Request) SetHeader(key, value string) *Request {
	for i := range r.headers {
		if r.headers[i].Key == key {
			r.headers[i].Value = value
			return r
		}
	}
	r.headers = append(r.headers, Header{Key: key, Value: value})
	return r
}

// Header returns the value for key, or "" when absent.
func (r *Request) Header(key string) string {
	for _, h := range r.headers {
		if h.Key == key {
			return h.Value
		}
	}
	return ""
}

// Headers returns a copy of the ordered header list.
func (r *Request) Headers() []Header {
	out := make([]Header, len(r.headers))
	copy(out, r.headers)
	return out
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

// SetMetadata records an auth or transport-metadata pair.
func (r *Request) SetMetadata(key, value string) *Request {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
	return r
}

// Clone returns an independent copy, used to snapshot a request before
// placeholder resolution mutates it for dispatch.
func (r *Request) Clone() *Request {
	out := &Request{
		Method: r.Method,
		URL:    r.URL,
		Body:   r.Body,
	}
	out.headers = make([]Header, len(r.headers))
	copy(out.headers, r.headers)
	if r.Metadata != nil {
		out.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

type requestJSON struct {
	Method   string            `json:"method"`
	URL      string            `json:"url"`
	Headers  []Header          `json:"headers,omitempty"`
	Body     string            `json:"body,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// MarshalJSON serializes the request for export, keeping header order.
func (r *Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(requestJSON{
		Method:   r.Method,
		URL:      r.URL,
		Headers:  r.headers,
		Body:     r.Body,
		Metadata: r.Metadata,
	})
}

func (r *Request) UnmarshalJSON(data []byte) error {
	var raw requestJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Method = raw.Method
	r.URL = raw.URL
	r.Body = raw.Body
	r.Metadata = raw.Metadata
	r.headers = nil
	for _, h := range raw.Headers {
		r.SetHeader(h.Key, h.Value)
	}
	return nil
}
