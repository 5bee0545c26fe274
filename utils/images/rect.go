package images

// Rect describes integer pixel dimensions of a raster target.
type Rect struct {
	Width  int
	Height int
}

func NewRect(width, height int) Rect {
	return Rect{Width: width, Height: height}
}

// Area returns the number of pixels covered by the rectangle.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Scale returns the rectangle with both dimensions multiplied by factor.
func (r Rect) Scale(factor int) Rect {
	return Rect{Width: r.Width * factor, Height: r.Height * factor}
}
