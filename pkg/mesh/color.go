package mesh

// Packed 0xAARRGGBB colors used by the primitive factories.
const (
	Black     uint32 = 0xff000000
	White     uint32 = 0xffffffff
	Red       uint32 = 0xffff0000
	Green     uint32 = 0xff00ff00
	Blue      uint32 = 0xff0000ff
	Cyan      uint32 = 0xff00ffff
	Magenta   uint32 = 0xffff00ff
	Yellow    uint32 = 0xffffff00
	Gray      uint32 = 0xff808080
	LightGray uint32 = 0xffc0c0c0
)

// ARGB packs four channels into 0xAARRGGBB.
func ARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Channels unpacks 0xAARRGGBB.
func Channels(argb uint32) (a, r, g, b uint8) {
	return uint8(argb >> 24), uint8(argb >> 16), uint8(argb >> 8), uint8(argb)
}

// ShadeARGB scales the RGB channels by factor, clamped to [0, 255].
// Alpha is preserved.
func ShadeARGB(argb uint32, factor float64) uint32 {
	a, r, g, b := Channels(argb)
	return ARGB(a, scaleChannel(r, factor), scaleChannel(g, factor), scaleChannel(b, factor))
}

func scaleChannel(c uint8, factor float64) uint8 {
	v := float64(c) * factor
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
