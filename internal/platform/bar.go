package platform

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// NewProgressBar creates a progress bar over the scenario steps. A hidden bar
// is returned when the output is not shown.
func NewProgressBar(steps int, visible bool) *progressbar.ProgressBar {
	if !visible {
		return progressbar.DefaultSilent(int64(steps))
	}

	bar := progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Consumption offsets"),
		progressbar.OptionSetItsString("test"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionClearOnFinish())
	return bar
}
