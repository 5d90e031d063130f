// Package resolver turns user supplied video references into canonical
// YouTube video ids.
package resolver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/domain"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// path prefixes that carry the id as the next segment
var pathForms = []string{"embed", "shorts", "live", "v", "e"}

type YouTube struct{}

var _ core.VideoResolver = YouTube{}

func (YouTube) Resolve(ref string) (string, error) {
	return Resolve(ref)
}

// Resolve accepts any common YouTube URL form. A bare string that has the
// exact shape of a video id (11 of [A-Za-z0-9_-]) is taken as that id, so
// "hello_world" resolves; whether such a video exists is the player's call.
func Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", domain.ErrVideoRefInvalid)
	}
	if videoIDPattern.MatchString(ref) {
		return ref, nil
	}

	raw := ref
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrVideoRefInvalid, err)
	}

	if id, ok := fromURL(u); ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrVideoRefInvalid, ref)
}

func fromURL(u *url.URL) (string, bool) {
	host := strings.ToLower(u.Hostname())
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })

	switch {
	case host == "youtu.be":
		if len(segments) > 0 {
			return valid(segments[0])
		}
		return "", false
	case isYouTubeHost(host):
	default:
		return "", false
	}

	if len(segments) == 1 && segments[0] == "watch" {
		return valid(u.Query().Get("v"))
	}
	if len(segments) >= 2 {
		for _, form := range pathForms {
			if segments[0] == form {
				return valid(segments[1])
			}
		}
	}
	// youtube.com/?v=ID shows up in shared links from some apps
	if len(segments) == 0 {
		return valid(u.Query().Get("v"))
	}
	return "", false
}

func isYouTubeHost(host string) bool {
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")
	host = strings.TrimPrefix(host, "music.")
	return host == "youtube.com" || host == "youtube-nocookie.com"
}

func valid(id string) (string, bool) {
	if videoIDPattern.MatchString(id) {
		return id, true
	}
	return "", false
}
