// Package fbimage provides frame-buffer images in the pixel layout the
// display controller scans out.
//
// ARGB8888 stores each pixel as four bytes in memory order B, G, R, A, which
// is a little-endian 32-bit word 0xAARRGGBB. Rows are padded so that the
// stride is a multiple of the controller's pitch alignment:
//
//	Pixels:  0            1            ...  pad
//	Bytes:   B G R A      B G R A      ...  0 0 0 0
//
// Example usage:
//
//	// Create a 1920x1080 image with a 128 byte aligned stride
//	img := fbimage.New(image.Rect(0, 0, 1920, 1080))
//
//	// Fill it, then hand it to the controller at its physical address
//	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{R: 0xff, A: 0xff}), image.Point{}, draw.Src)
//	fb := img.Framebuffer(addr)
//
//	// Cursors are 32x32 or 64x64
//	cur := fbimage.ScaleCursor(icon, 64)
package fbimage
