// Package commands implements the gppcodec subcommands. Commands take their input as
// arguments and return output and errors, leaving flag handling and printing to main.
//
// Errors are returned the way the codec reports them: a slice may mix fatal errors with
// errortypes.Warning values, and callers split them with errortypes.FatalOnly and
// errortypes.WarningOnly.
package commands

import (
	"github.com/benbjohnson/clock"
	"github.com/prebid/gpp-codec/config"
	"github.com/prebid/gpp-codec/gpp"
	"github.com/prebid/gpp-codec/metrics"
)

// Deps are the collaborators shared by every command.
type Deps struct {
	Config  *config.Configuration
	Metrics metrics.MetricsEngine
	// Clock stamps TCF timestamps when tcf.stamp_timestamps is set.
	Clock clock.Clock
}

func (d Deps) modelOptions() []gpp.Option {
	opts := []gpp.Option{gpp.WithMetrics(d.Metrics)}
	if d.Config.TCF.StampTimestamps && d.Clock != nil {
		opts = append(opts, gpp.WithClock(d.Clock))
	}
	return opts
}
