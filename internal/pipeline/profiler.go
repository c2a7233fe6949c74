package pipeline

import (
	"time"

	"github.com/sirupsen/logrus"
)

// profiler records per-step wall-clock timings for one extraction.
type profiler struct {
	log     *logrus.Logger
	enabled bool
	names   []string
	timings []time.Duration
}

func newProfiler(log *logrus.Logger, enabled bool) *profiler {
	return &profiler{log: log, enabled: enabled}
}

// step starts timing a named step and returns the function that ends it.
func (p *profiler) step(name string) func() {
	if !p.enabled {
		return func() {}
	}
	start := time.Now()
	return func() {
		p.names = append(p.names, name)
		p.timings = append(p.timings, time.Since(start))
	}
}

// report logs the recorded timings and the total.
func (p *profiler) report() {
	if !p.enabled || len(p.names) == 0 {
		return
	}

	fields := logrus.Fields{}
	var total time.Duration
	for i, name := range p.names {
		fields[name] = p.timings[i].Round(time.Microsecond).String()
		total += p.timings[i]
	}
	fields["total"] = total.Round(time.Microsecond).String()
	p.log.WithFields(fields).Info("pipeline timings")
}
