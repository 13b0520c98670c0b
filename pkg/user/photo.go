package user

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

const maxPhotoSide = 200

// thumbnail decodes a JPEG or PNG photo and re-encodes it as JPEG, shrunk to fit within
// 200x200 with the aspect ratio kept. Smaller photos are not enlarged.
func thumbnail(photo []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(photo))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhoto, err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxPhotoSide || height > maxPhotoSide {
		if width >= height {
			height = max(1, height*maxPhotoSide/width)
			width = maxPhotoSide
		} else {
			width = max(1, width*maxPhotoSide/height)
			height = maxPhotoSide
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
