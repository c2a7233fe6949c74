package pipeline

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// debugSink writes intermediate pipeline images to a directory. A nil
// receiver or empty directory makes every save a no-op, so call sites never
// need to branch.
type debugSink struct {
	dir string
	log *logrus.Logger
}

func newDebugSink(dir string, log *logrus.Logger) *debugSink {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.WithError(err).Warn("debug directory unavailable")
		return nil
	}
	return &debugSink{dir: dir, log: log}
}

func (d *debugSink) save(name string, img gocv.Mat) {
	if d == nil || img.Empty() {
		return
	}
	path := filepath.Join(d.dir, name+".png")
	if ok := gocv.IMWrite(path, img); !ok {
		d.log.WithField("path", path).Warn("failed to write debug image")
		return
	}
	d.log.WithField("path", path).Debug("debug image written")
}
