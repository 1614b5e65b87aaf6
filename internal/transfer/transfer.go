package transfer

import (
	"github.com/ironsheep/texture-mcp/internal/texture"
)

// ForegroundTransfer lifts the foreground that full adds to background and
// replays it onto newBackground.
func ForegroundTransfer(background, full, newBackground *texture.Texture, opts Options) (*texture.Texture, error) {
	d, err := BuildDiff(background, full, opts.DiffOptions)
	if err != nil {
		return nil, err
	}
	return Apply(d, newBackground, opts.ApplyOptions)
}
