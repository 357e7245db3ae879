package file_test

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/pkg/file"
	"github.com/vidshop/storefront/pkg/secrets"
)

func newObfuscator(t *testing.T, opts ...file.ObfuscatorOption) *file.Obfuscator {
	t.Helper()
	codec, err := secrets.New("filename-test-secret")
	require.NoError(t, err)
	o, err := file.NewObfuscator(codec, opts...)
	require.NoError(t, err)
	return o
}

func TestObfuscator_Build(t *testing.T) {
	t.Parallel()

	fixed := time.UnixMilli(1757644868956)
	o := newObfuscator(t, file.WithNameClock(func() time.Time { return fixed }))

	name, err := o.Build("clip.mp4", file.KindVideo)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(name, "video_1757644868956_"))
	assert.True(t, strings.HasSuffix(name, ".mp4"))
	assert.True(t, file.IsObfuscated(name))
	assert.Equal(t, "video/mp4", file.MIMEType(name))

	parts := strings.Split(name, "_")
	require.Len(t, parts, 4)
	assert.Len(t, parts[2], 6)
	_, err = strconv.ParseInt(parts[1], 10, 64)
	require.NoError(t, err)
	assert.NotContains(t, name, "clip")
}

func TestObfuscator_RoundTrip(t *testing.T) {
	t.Parallel()
	o := newObfuscator(t)

	tests := []struct {
		name string
		kind file.Kind
	}{
		{"clip.mp4", file.KindVideo},
		{"thumbnail_image.jpg", file.KindThumbnail},
		{"meu_video_importante.avi", file.KindVideo},
		{"Vídeo de férias.MOV", file.KindVideo},
		{"no-extension", file.KindThumbnail},
		{strings.Repeat("b", file.MaxStemBytes) + ".webm", file.KindVideo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			built, err := o.Build(tt.name, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.name, o.ExtractOriginal(built))

			kind, ok := file.KindFromFilename(built)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestObfuscator_Unique(t *testing.T) {
	t.Parallel()
	o := newObfuscator(t)

	seen := make(map[string]bool)
	for range 50 {
		name, err := o.Build("clip.mp4", file.KindVideo)
		require.NoError(t, err)
		require.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
}

func TestObfuscator_BuildErrors(t *testing.T) {
	t.Parallel()
	o := newObfuscator(t)

	_, err := o.Build("clip.mp4", file.Kind("audio"))
	require.ErrorIs(t, err, file.ErrInvalidKind)

	_, err = o.Build("  ", file.KindVideo)
	require.ErrorIs(t, err, file.ErrEmptyFilename)

	_, err = file.NewObfuscator(nil)
	require.ErrorIs(t, err, file.ErrNoCodec)
}

func TestObfuscator_ExtractOriginalTolerance(t *testing.T) {
	t.Parallel()
	o := newObfuscator(t)

	for _, in := range []string{
		"",
		"plain.mp4",
		"video_123.mp4",
		"video_123_abc.mp4",
		"video_123_abcdef_notencrypted.mp4",
		"video_123_abcdef_AAAA:zz.mp4",
	} {
		assert.Equal(t, in, o.ExtractOriginal(in), in)
	}
}

func TestKindHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, file.VideosBucket, file.KindVideo.Bucket())
	assert.Equal(t, file.ThumbnailsBucket, file.KindThumbnail.Bucket())

	_, ok := file.KindFromFilename("poster.png")
	assert.False(t, ok)
	assert.False(t, file.IsObfuscated("video_now_abcdef_x.mp4"))
}
