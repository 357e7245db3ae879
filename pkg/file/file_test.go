package file_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/pkg/file"
)

func createFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(10<<20))

	return req.MultipartForm.File["file"][0]
}

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 0x49, 0x48, 0x44, 0x52}

func TestMIMEType(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"clip.mp4":    "video/mp4",
		"CLIP.MP4":    "video/mp4",
		"movie.avi":   "video/x-msvideo",
		"movie.mov":   "video/quicktime",
		"movie.wmv":   "video/x-ms-wmv",
		"thumb.png":   "image/png",
		"thumb.jpeg":  "image/jpeg",
		"thumb.webp":  "image/webp",
		"archive.zip": "application/octet-stream",
		"noext":       "application/octet-stream",
	}
	for name, want := range tests {
		assert.Equal(t, want, file.MIMEType(name), name)
	}

	assert.True(t, file.IsVideoName("a.mkv"))
	assert.True(t, file.IsImageName("a.gif"))
	assert.False(t, file.IsImageName("a.mp4"))
}

func TestValidateKind(t *testing.T) {
	t.Parallel()

	png := createFileHeader(t, "poster.png", pngHeader)
	require.NoError(t, file.ValidateKind(png, file.KindThumbnail))
	require.ErrorIs(t, file.ValidateKind(png, file.KindVideo), file.ErrMIMETypeNotAllowed)

	// mp4 containers are not sniffed reliably; extension decides for generic content
	mp4 := createFileHeader(t, "clip.mp4", []byte{0x00, 0x01, 0x02, 0x03})
	require.NoError(t, file.ValidateKind(mp4, file.KindVideo))

	require.ErrorIs(t, file.ValidateKind(nil, file.KindVideo), file.ErrNilFileHeader)
}

func TestValidateSize(t *testing.T) {
	t.Parallel()

	fh := createFileHeader(t, "clip.mp4", make([]byte, 100))
	require.NoError(t, file.ValidateSize(fh, 100))
	require.ErrorIs(t, file.ValidateSize(fh, 99), file.ErrFileTooLarge)
	require.ErrorIs(t, file.ValidateSize(nil, 1), file.ErrNilFileHeader)
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "passwd", file.SanitizeFilename("../../../etc/passwd"))
	assert.Equal(t, "file.txt", file.SanitizeFilename("C:\\Windows\\file.txt"))
	assert.Equal(t, "unnamed", file.SanitizeFilename(""))
	assert.Equal(t, "unnamed", file.SanitizeFilename(".."))
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	s, err := file.NewFromConfig(context.Background(), file.Config{Driver: file.DriverLocal, LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &file.LocalStorage{}, s)

	_, err = file.NewFromConfig(context.Background(), file.Config{Driver: "ftp"})
	require.ErrorIs(t, err, file.ErrUnknownDriver)
}

func TestValidateBucket(t *testing.T) {
	t.Parallel()

	require.NoError(t, file.ValidateBucket(file.VideosBucket))
	require.ErrorIs(t, file.ValidateBucket("Bad/Bucket"), file.ErrInvalidBucket)
	require.ErrorIs(t, file.ValidateBucket("a"), file.ErrInvalidBucket)
}
