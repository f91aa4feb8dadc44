package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Flatten composites img onto an opaque white canvas of the same size. The
// result's bounds start at the origin.
func Flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := whiteCanvas(b.Dx(), b.Dy())
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// Letterbox scales src uniformly to fit inside width x height and centres it on
// a white canvas of exactly that size.
func Letterbox(src image.Image, width, height int) *image.RGBA {
	sb := src.Bounds()
	w, h := fitSize(sb.Dx(), sb.Dy(), width, height)

	dst := whiteCanvas(width, height)
	x0 := (width - w) / 2
	y0 := (height - h) / 2
	draw.CatmullRom.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), src, sb, draw.Over, nil)
	return dst
}

// fitSize returns the size of a sw x sh image scaled by min(tw/sw, th/sh),
// truncated and never below one pixel. The ratio comparison is done on integers
// so the constraining side lands exactly on its target.
func fitSize(sw, sh, tw, th int) (int, int) {
	if sw <= 0 || sh <= 0 {
		return tw, th
	}

	var w, h int64
	if int64(tw)*int64(sh) <= int64(th)*int64(sw) {
		w = int64(tw)
		h = int64(sh) * int64(tw) / int64(sw)
	} else {
		h = int64(th)
		w = int64(sw) * int64(th) / int64(sh)
	}
	return int(max(w, 1)), int(max(h, 1))
}

func whiteCanvas(width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return dst
}
