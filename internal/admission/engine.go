package admission

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/rivermedia/streamgate/internal/accounts"
	"github.com/rivermedia/streamgate/internal/authz"
)

// Engine makes the admission decision. It is a pure function over store
// state: no side effects, and every failure path collapses to a deny.
type Engine struct {
	repo accounts.Repository
}

// NewEngine creates an admission engine over the given account store.
func NewEngine(repo accounts.Repository) *Engine {
	return &Engine{repo: repo}
}

// Decide resolves the publish URL's final path segment as a stream key and
// returns the verdict. The rewritten URL replaces the key segment with the
// resolved username; the raw key never appears in an allowed verdict.
func (e *Engine) Decide(ctx context.Context, rawURL string) Verdict {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return Deny()
	}

	segments := splitPath(u.Path)
	if len(segments) == 0 {
		return Deny()
	}

	// The last segment should be the stream key; the rest is the route
	// prefix and is preserved as-is.
	streamKey := segments[len(segments)-1]
	prefix := segments[:len(segments)-1]
	if streamKey == "" {
		return Deny()
	}

	account, err := e.repo.FindByKey(ctx, streamKey)
	if err != nil {
		// Lookup miss and lookup failure produce the same deny so key
		// guessing gets no oracle. The failure still gets logged.
		slog.Debug("admission lookup failed", slog.Any("error", err))
		return Deny()
	}

	if !authz.HasCapability(account.Permissions, authz.CapStream) {
		return Deny()
	}

	u.Path = "/" + strings.Join(append(prefix, account.Username), "/")
	return Allow(u.String())
}

// splitPath breaks a URL path into its non-empty segments.
func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
