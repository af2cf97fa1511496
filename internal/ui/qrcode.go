package ui

import (
	"image"

	"github.com/skip2/go-qrcode"
)

const (
	defaultQRCodeSizePx = 128
	maxCachedQRCodes    = 16
)

type qrKey struct {
	payload string
	size    int
}

// qrCache keeps encoded codes so a widget redeclared every frame does not
// re-encode its payload.
type qrCache struct {
	images map[qrKey]image.Image
}

// image returns the QR code for payload, or nil for an empty payload.
func (q *qrCache) image(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}
	key := qrKey{payload: payload, size: sizePx}
	if img, ok := q.images[key]; ok {
		return img, nil
	}

	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	img := code.Image(sizePx)

	if q.images == nil || len(q.images) >= maxCachedQRCodes {
		q.images = make(map[qrKey]image.Image)
	}
	q.images[key] = img
	return img, nil
}
