package resolver

import (
	"testing"

	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	const id = "dQw4w9WgXcQ"

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{name: "bare id", ref: id, want: id},
		{name: "bare id with spaces", ref: "  " + id + " ", want: id},
		{name: "watch url", ref: "https://www.youtube.com/watch?v=" + id, want: id},
		{name: "watch url with extra params", ref: "https://www.youtube.com/watch?list=PL1&v=" + id + "&t=42s", want: id},
		{name: "no scheme", ref: "youtube.com/watch?v=" + id, want: id},
		{name: "mobile", ref: "https://m.youtube.com/watch?v=" + id, want: id},
		{name: "music", ref: "https://music.youtube.com/watch?v=" + id, want: id},
		{name: "short link", ref: "https://youtu.be/" + id, want: id},
		{name: "short link with time", ref: "https://youtu.be/" + id + "?t=10", want: id},
		{name: "embed", ref: "https://www.youtube.com/embed/" + id, want: id},
		{name: "nocookie embed", ref: "https://www.youtube-nocookie.com/embed/" + id, want: id},
		{name: "shorts", ref: "https://youtube.com/shorts/" + id, want: id},
		{name: "live", ref: "https://www.youtube.com/live/" + id + "?feature=share", want: id},
		{name: "old v path", ref: "http://www.youtube.com/v/" + id, want: id},
		{name: "upper case host", ref: "HTTPS://WWW.YOUTUBE.COM/watch?v=" + id, want: id},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.ref)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{name: "empty", ref: "   "},
		{name: "too short", ref: "abc"},
		{name: "bare id one char too long", ref: "dQw4w9WgXcQx"},
		{name: "bare id with punctuation", ref: "dQw4w9WgXc!"},
		{name: "bare id with inner space", ref: "dQw4w 9WgXc"},
		{name: "other host", ref: "https://vimeo.com/123456789"},
		{name: "lookalike host", ref: "https://notyoutube.com/watch?v=dQw4w9WgXcQ"},
		{name: "watch without v", ref: "https://www.youtube.com/watch?list=PL1"},
		{name: "bad id in short link", ref: "https://youtu.be/short"},
		{name: "channel page", ref: "https://www.youtube.com/@somechannel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.ref)
			assert.ErrorIs(t, err, domain.ErrVideoRefInvalid)
			assert.Equal(t, domain.CodeVideoRefInvalid, domain.CodeOf(err))
		})
	}
}
