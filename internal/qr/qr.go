// Package qr renders scan codes into PNG images and reads them back.
package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // decode uploaded photos
	_ "image/png"
	"io"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

var (
	ErrRender      = errors.New("qr render failed")
	ErrNoCode      = errors.New("no readable qr code in image")
	ErrUnavailable = errors.New("qr capability unavailable")
)

type Renderer struct {
	size int
}

func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Renderer{size: size}
}

// Render encodes payload as a PNG QR image
func (r *Renderer) Render(payload string) ([]byte, error) {
	if r == nil {
		return nil, ErrUnavailable
	}
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrRender)
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, r.size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return png, nil
}

type Decoder struct {
	reader gozxing.Reader
}

func NewDecoder() *Decoder {
	return &Decoder{reader: zxqrcode.NewQRCodeReader()}
}

// Decode reads a PNG or JPEG image and returns the QR payload it carries
func (d *Decoder) Decode(r io.Reader) (string, error) {
	if d == nil {
		return "", ErrUnavailable
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("%w: decode image: %v", ErrNoCode, err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCode, err)
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := d.reader.Decode(bmp, hints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCode, err)
	}
	return result.GetText(), nil
}

// DecodeBytes is Decode for an in-memory image
func (d *Decoder) DecodeBytes(data []byte) (string, error) {
	return d.Decode(bytes.NewReader(data))
}
