package ytgrab

import (
	"errors"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestClassifyAccepts(t *testing.T) {
	assert := assert_.New(t)

	for _, tc := range []struct {
		raw   string
		class Classification
	}{
		{"https://youtu.be/dQw4w9WgXcQ", ClassSingle},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", ClassSingle},
		{"https://www.youtube.com/shorts/abc123", ClassSingle},
		{"https://www.youtube.com/playlist?list=XYZ", ClassCollection},
		{"https://www.youtube.com/watch?v=abc&list=XYZ", ClassCollection},
		{"https://m.youtube.com/watch?v=abc", ClassSingle},
		{"https://www.youtube.com/c/SomeChannel/playlists", ClassCollection},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", ClassSingle},
	} {
		target, err := Classify(tc.raw)
		assert.NoError(err, tc.raw)
		assert.Equal(tc.raw, target.URL, tc.raw)
		assert.Equal(tc.raw, target.Raw, tc.raw)
		assert.Equal(tc.class, target.Class, tc.raw)
	}
}

func TestClassifyRejects(t *testing.T) {
	assert := assert_.New(t)

	for _, raw := range []string{
		"https://example.com/video",
		"https://vimeo.com/12345",
		"https://www.youtube.com/",
		"",
		"not a url at all",
	} {
		_, err := Classify(raw)
		assert.Error(err, raw)
		assert.True(errors.Is(err, ErrInvalidURL), raw)
	}
}

func TestClassifyNormalizesScheme(t *testing.T) {
	assert := assert_.New(t)

	target, err := Classify("youtu.be/dQw4w9WgXcQ")
	assert.NoError(err)
	assert.Equal("https://youtu.be/dQw4w9WgXcQ", target.URL)
	assert.Equal("youtu.be/dQw4w9WgXcQ", target.Raw)

	// An existing scheme is never altered.
	target, err = Classify("http://youtu.be/dQw4w9WgXcQ")
	assert.NoError(err)
	assert.Equal("http://youtu.be/dQw4w9WgXcQ", target.URL)
}

func TestIsCollection(t *testing.T) {
	assert := assert_.New(t)

	withList, err := Classify("https://www.youtube.com/watch?v=abc&list=XYZ")
	assert.NoError(err)
	assert.True(withList.IsCollection())

	stripped := withList.WithoutList()
	assert.False(stripped.IsCollection())
	assert.Equal("https://www.youtube.com/watch?v=abc", stripped.URL)
}

func TestWithoutListIdempotent(t *testing.T) {
	assert := assert_.New(t)

	target, err := Classify("https://www.youtube.com/watch?v=abc&list=XYZ")
	assert.NoError(err)
	once := target.WithoutList()
	twice := once.WithoutList()
	assert.Equal(once, twice)
}

func TestStripListParam(t *testing.T) {
	assert := assert_.New(t)

	for _, tc := range []struct{ in, want string }{
		// Mid-query separator.
		{"https://www.youtube.com/watch?v=abc&list=XYZ", "https://www.youtube.com/watch?v=abc"},
		{"https://www.youtube.com/watch?v=abc&list=XYZ&t=5", "https://www.youtube.com/watch?v=abc&t=5"},
		// Leading separator promotes the next parameter.
		{"https://www.youtube.com/watch?list=XYZ&v=abc", "https://www.youtube.com/watch?v=abc"},
		{"https://www.youtube.com/playlist?list=XYZ", "https://www.youtube.com/playlist"},
		// Nothing to strip.
		{"https://www.youtube.com/watch?v=abc", "https://www.youtube.com/watch?v=abc"},
	} {
		assert.Equal(tc.want, stripListParam(tc.in), tc.in)
	}
}
