package blocks

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/lvillar/resumepdf/block"
	"github.com/lvillar/resumepdf/profile"
	"github.com/lvillar/resumepdf/surface"
)

// MaxAvatarPixels bounds the side of the square image embedded for an
// avatar.
const MaxAvatarPixels = 512

var errNoImage = errors.New("blocks: no image data")

// AvatarImage decodes a PNG, JPEG, GIF or WebP image, crops it to a
// centred square, scales it down to at most MaxAvatarPixels and returns
// it encoded as PNG.
func AvatarImage(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errNoImage
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	side := min(b.Dx(), b.Dy())
	if side == 0 {
		return nil, errNoImage
	}
	crop := image.Rect(0, 0, side, side).Add(image.Pt(b.Min.X+(b.Dx()-side)/2, b.Min.Y+(b.Dy()-side)/2))
	n := min(side, MaxAvatarPixels)
	dst := image.NewRGBA(image.Rect(0, 0, n, n))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func photo(d block.Data) ([]byte, bool) {
	for _, k := range []string{"photo", "avatar", "photo_bytes", "photo_b64", "avatar_b64"} {
		if b, ok := d.Bytes(k); ok {
			return b, true
		}
	}
	return profile.DecodeImage(map[string]any(d))
}

// AvatarCircle draws the profile photo masked to a circle, centred in the
// frame. Undecodable images are treated as absent.
//
// Data: photo as bytes, base64 text or a data URI (photo_b64 and
// avatar_b64 are accepted too); max_d_mm, the diameter cap (default 42);
// gap_mm below the circle (default 4).
func AvatarCircle(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
	raw, ok := photo(d)
	if !ok {
		return f.Y, nil
	}
	diam := min(d.Float("max_d_mm", 42)*MM, f.W)
	if diam <= 0 {
		return f.Y, nil
	}

	var img []byte
	if surface.IsDry(s) {
		if _, _, err := image.DecodeConfig(bytes.NewReader(raw)); err != nil {
			return f.Y, nil
		}
		img = raw
	} else {
		var err error
		if img, err = AvatarImage(raw); err != nil {
			if ctx != nil && ctx.Logger != nil {
				ctx.Logger.Warn("avatar skipped", "err", err)
			}
			return f.Y, nil
		}
	}

	r := diam / 2
	cx, cy := f.X+f.W/2, f.Y+r
	name := "avatar-" + uuid.NewSHA1(uuid.NameSpaceOID, raw).String()
	s.ClipCircle(cx, cy, r)
	err := s.Image(name, img, cx-r, cy-r, diam, diam)
	s.ClipEnd()
	if err != nil {
		if ctx != nil && ctx.Logger != nil {
			ctx.Logger.Warn("avatar skipped", "err", err)
		}
		return f.Y, nil
	}
	return f.Y + diam + d.Float("gap_mm", 4)*MM, nil
}
