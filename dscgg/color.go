package dscgg

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB value used for embed accents. It marshals to the
// canonical "#rrggbb" form the service expects.
type Color uint32

// Named preset colors.
const (
	ColorDefault     Color = 0x000000
	ColorTeal        Color = 0x1abc9c
	ColorDarkTeal    Color = 0x11806a
	ColorGreen       Color = 0x2ecc71
	ColorDarkGreen   Color = 0x1f8b4c
	ColorBlue        Color = 0x3498db
	ColorDarkBlue    Color = 0x206694
	ColorPurple      Color = 0x9b59b6
	ColorDarkPurple  Color = 0x71368a
	ColorMagenta     Color = 0xe91e63
	ColorDarkMagenta Color = 0xad1457
	ColorGold        Color = 0xf1c40f
	ColorDarkGold    Color = 0xc27c0e
	ColorOrange      Color = 0xe67e22
	ColorDarkOrange  Color = 0xa84300
	ColorRed         Color = 0xe74c3c
	ColorDarkRed     Color = 0x992d22
	ColorLighterGrey Color = 0x95a5a6
	ColorDarkGrey    Color = 0x607d8b
	ColorLightGrey   Color = 0x979c9f
	ColorDarkerGrey  Color = 0x546e7a
	ColorBlurple     Color = 0x7289da
	ColorGreyple     Color = 0x99aab5
	ColorDarkTheme   Color = 0x36393f
)

// ColorFromHex parses a "#rrggbb" (or bare "rrggbb") hex string.
func ColorFromHex(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("%w: invalid hex color %q", ErrInvalidArgument, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid hex color %q", ErrInvalidArgument, s)
	}
	return Color(v), nil
}

// ColorFromRGB constructs a Color from explicit red, green and blue
// components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// ColorFromHSV constructs a Color from hue, saturation and value, each in
// the range [0, 1].
func ColorFromHSV(h, s, v float64) Color {
	if s == 0 {
		c := uint8(math.Round(v * 255))
		return ColorFromRGB(c, c, c)
	}

	h = math.Mod(h, 1) * 6
	i := int(h) % 6
	f := h - math.Floor(h)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch i {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return ColorFromRGB(
		uint8(math.Round(r*255)),
		uint8(math.Round(g*255)),
		uint8(math.Round(b*255)),
	)
}

// R returns the red component.
func (c Color) R() uint8 { return uint8(c >> 16 & 0xff) }

// G returns the green component.
func (c Color) G() uint8 { return uint8(c >> 8 & 0xff) }

// B returns the blue component.
func (c Color) B() uint8 { return uint8(c & 0xff) }

// Hex returns the canonical "#rrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

func (c Color) String() string { return c.Hex() }

// MarshalJSON implements json.Marshaler.
func (c Color) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.Hex())), nil
}

// UnmarshalJSON implements json.Unmarshaler. The service emits colors both
// as "#rrggbb" strings and as raw integers.
func (c *Color) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("invalid color %s: %w", raw, err)
		}
		parsed, err := ColorFromHex(unquoted)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid color %s: %w", raw, err)
	}
	*c = Color(v)
	return nil
}
