// Package admission decides, per inbound publish attempt, whether the
// presented stream key maps to an authorized publisher. The media engine
// posts a webhook carrying the publish URL; the final path segment is the
// stream key. On success the URL is rewritten to end in the publisher's
// username so the key never travels further downstream.
package admission

// Request is the webhook body sent by the media engine. Most of the
// payload is discarded; only the URL matters, because the stream key is
// its final path segment.
//
//	{"request": {"url": "rtmp://example.com/stream/sgk_..."}}
type Request struct {
	Request struct {
		URL string `json:"url"`
	} `json:"request"`
}

// Verdict is the admission decision returned to the media engine.
//
// Allowed:
//
//	{"allowed": true, "new_url": "rtmp://example.com/stream/Username"}
//
// Denied (identical shape for every failure cause):
//
//	{"allowed": false}
type Verdict struct {
	Allowed bool   `json:"allowed"`
	NewURL  string `json:"new_url,omitempty"`
}

// Allow builds an allowing verdict carrying the rewritten URL.
func Allow(newURL string) Verdict {
	return Verdict{Allowed: true, NewURL: newURL}
}

// Deny builds a denying verdict. Every deny is observably identical:
// unknown key, missing capability, and store failure must be
// indistinguishable to the caller.
func Deny() Verdict {
	return Verdict{Allowed: false}
}
