package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each terminal row shows two framebuffer rows with ▀, using the
// foreground for the top pixel and the background for the bottom one.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		if topY >= fb.height {
			break
		}
		for col := area.Min.X; col < area.Max.X && col < fb.width; col++ {
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(col, topY)),
					Bg: cellColor(fb.GetPixel(col, topY+1)),
				},
			})
		}
	}
}

// TerminalSize returns the framebuffer size that fills a cols x rows
// terminal with half-block cells.
func TerminalSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
