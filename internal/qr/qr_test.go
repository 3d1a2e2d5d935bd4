package qr

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDecodeRoundTrip(t *testing.T) {
	payload := "6f1c2a4e-9d7b-4b55-8c1e-2f0a9e3d7c11"

	img, err := NewRenderer(0).Render(payload)
	require.NoError(t, err)
	require.NotEmpty(t, img)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, DefaultSize, cfg.Width)

	got, err := NewDecoder().DecodeBytes(img)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestRenderEmptyPayload(t *testing.T) {
	_, err := NewRenderer(128).Render("")
	assert.ErrorIs(t, err, ErrRender)
}

func TestNilCollaborators(t *testing.T) {
	var r *Renderer
	_, err := r.Render("x")
	assert.ErrorIs(t, err, ErrUnavailable)

	var d *Decoder
	_, err = d.DecodeBytes(nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDecodeBlankImage(t *testing.T) {
	blank := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, blank))

	_, err := NewDecoder().DecodeBytes(buf.Bytes())
	assert.ErrorIs(t, err, ErrNoCode)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := NewDecoder().DecodeBytes([]byte("not an image"))
	assert.ErrorIs(t, err, ErrNoCode)
}
