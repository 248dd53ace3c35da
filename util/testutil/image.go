package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
)

// These functions build small in-memory source images so tests never
// depend on binary fixtures checked into the repo.

// JpegImage returns an encoded JPEG filled with a solid color.
func JpegImage(width, height int) []byte {
	img := solidRGBA(width, height, color.RGBA{R: 40, G: 90, B: 160, A: 255})
	buf := &bytes.Buffer{}
	err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 90})
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PngWithAlpha returns an encoded PNG whose right half is fully
// transparent, for testing the flatten-onto-white step.
func PngWithAlpha(width, height int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBA{R: 200, G: 30, B: 30, A: 255}
			if x >= width/2 {
				c.A = 0
			}
			img.SetNRGBA(x, y, c)
		}
	}
	buf := &bytes.Buffer{}
	err := png.Encode(buf, img)
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// GifImage returns an encoded palette-mode GIF.
func GifImage(width, height int) []byte {
	img := image.NewPaletted(image.Rect(0, 0, width, height), palette.Plan9)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetColorIndex(x, y, uint8((x+y)%len(palette.Plan9)))
		}
	}
	buf := &bytes.Buffer{}
	err := gif.Encode(buf, img, nil)
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func solidRGBA(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
