package mask

import (
	"image/color"
	"math"

	"github.com/ironsheep/texture-mcp/internal/texture"
)

// Channel selects the pixel value Cutoff compares against its threshold.
// Every channel yields a value in [0, 1].
type Channel int

const (
	ChannelAlpha Channel = iota
	ChannelRed
	ChannelGreen
	ChannelBlue
	ChannelHue
	ChannelSaturation
	ChannelLightness
)

var channelNames = []string{"alpha", "red", "green", "blue", "hue", "saturation", "lightness"}

func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return "unknown"
	}
	return channelNames[c]
}

// ParseChannel returns the channel with the given name. An empty name is
// ChannelAlpha.
func ParseChannel(name string) (Channel, error) {
	if name == "" {
		return ChannelAlpha, nil
	}
	for i, n := range channelNames {
		if n == name {
			return Channel(i), nil
		}
	}
	return 0, &texture.OptionError{Option: "channel", Value: name, Reason: "must be one of alpha, red, green, blue, hue, saturation, lightness"}
}

// value returns the channel of c scaled to [0, 1]. Hue is in turns.
func (c Channel) value(px color.NRGBA) float64 {
	switch c {
	case ChannelRed:
		return float64(px.R) / 255
	case ChannelGreen:
		return float64(px.G) / 255
	case ChannelBlue:
		return float64(px.B) / 255
	case ChannelHue, ChannelSaturation, ChannelLightness:
		h, s, l := texture.Colorful(px).Hsl()
		switch c {
		case ChannelHue:
			return h / 360
		case ChannelSaturation:
			return s
		}
		return l
	}
	return float64(px.A) / 255
}

// CutoffOptions configures Cutoff.
type CutoffOptions struct {
	Channel Channel

	// Threshold is compared against the channel value in [0, 1].
	Threshold float64
}

// DefaultCutoffOptions returns the documented defaults.
func DefaultCutoffOptions() CutoffOptions {
	return CutoffOptions{Channel: ChannelAlpha, Threshold: 0.5}
}

// Validate reports the first out-of-range option.
func (o CutoffOptions) Validate() error {
	if o.Channel < ChannelAlpha || o.Channel > ChannelLightness {
		return &texture.OptionError{Option: "channel", Value: int(o.Channel), Reason: "unknown channel"}
	}
	if math.IsNaN(o.Threshold) || math.IsInf(o.Threshold, 0) {
		return &texture.OptionError{Option: "cutoff", Value: o.Threshold, Reason: "must be finite"}
	}
	return nil
}

var (
	maskOn  = color.NRGBA{255, 255, 255, 255}
	maskOff = color.NRGBA{}
)

// Cutoff returns a mask that is opaque white where the selected channel of
// input is strictly above the threshold and transparent elsewhere.
func Cutoff(input *texture.Texture, opts CutoffOptions) (*texture.Texture, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return texture.Generate(input.Width(), input.Height(), func(x, y int) color.NRGBA {
		if opts.Channel.value(input.At(x, y)) > opts.Threshold {
			return maskOn
		}
		return maskOff
	}), nil
}
