package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"

	goqr "github.com/skip2/go-qrcode"
)

const DefaultSize = 300

// Encoder renders payloads as PNG QR codes at the highest error-correction level.
type Encoder struct {
	Size int
}

func New() *Encoder { return &Encoder{Size: DefaultSize} }

func (e *Encoder) PNG(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, errors.New("qrcode: empty payload")
	}
	png, err := goqr.Encode(string(payload), goqr.Highest, e.Size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	return png, nil
}

// DataURL returns the PNG as a data:image/png;base64 URL for <img src>.
func (e *Encoder) DataURL(payload []byte) (string, error) {
	png, err := e.PNG(payload)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
