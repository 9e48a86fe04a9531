package app

import (
	"context"
	"image"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/skypop/internal/config"
	"github.com/ayusman/skypop/internal/game"
)

// Step runs one frame: apply queued config edits, capture, track, advance
// the session, then publish the snapshot and preview. actions are merged
// with everything queued through Post. It implements render.Engine.
func (a *App) Step(actions game.Actions) game.Snapshot {
	a.drainReloads()
	actions = actions.Merge(a.drainActions())

	tuning := a.controller.Tuning()
	a.syncGeometry(tuning.Width, tuning.Height)

	frame, err := a.camera.ReadFrame()
	var processed gocv.Mat
	if err != nil {
		a.logger.Debug("no camera frame", "err", err)
		a.tracker.Apply(nil)
	} else {
		processed, err = a.tracker.Scan(frame)
		frame.Close()
		if err != nil {
			processed.Close()
		}
	}

	dt := a.frameTime(tuning)
	a.controller.Update(context.Background(), dt, a.tracker.Cursor(), actions)
	snap := a.controller.Snapshot()

	// A reset inside Update may have applied new geometry.
	a.syncGeometry(snap.Width, snap.Height)

	a.publish(snap, processed, err == nil)
	return snap
}

// maxFrameTime caps the time credited to one frame after a stall.
const maxFrameTime = 0.25

// frameTime returns the wall time since the previous Step in seconds,
// capped at maxFrameTime. The first frame after the session was not
// running (menu, pause, game over) is credited one nominal tick, so time
// spent outside play never reaches the session clock.
func (a *App) frameTime(tuning game.Tuning) float64 {
	now := a.clock()
	last := a.lastStep
	a.lastStep = now

	if last.IsZero() || a.controller.Phase() != game.PhasePlaying {
		return tuning.TickSeconds()
	}
	dt := now.Sub(last).Seconds()
	switch {
	case dt < 0:
		return 0
	case dt > maxFrameTime:
		return maxFrameTime
	}
	return dt
}

// syncGeometry keeps the tracker's cursor mapping on the session's window size.
func (a *App) syncGeometry(width, height int) {
	if size := image.Pt(width, height); size != a.geometry {
		a.tracker.SetWindowSize(size.X, size.Y)
		a.geometry = size
	}
}

func (a *App) drainActions() game.Actions {
	var merged game.Actions
	for {
		select {
		case next := <-a.actions:
			merged = merged.Merge(next)
		default:
			return merged
		}
	}
}

// drainReloads applies pending config edits. The new tuning takes effect
// at the next session reset; the tracker follows the controller's geometry.
func (a *App) drainReloads() {
	if a.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-a.watcher.Events:
			if !ok {
				a.watcher = nil
				return
			}
			a.reload(path)
		case err, ok := <-a.watcher.Errors:
			if ok {
				a.logger.Warn("config watcher error", "err", err)
			}
		default:
			return
		}
	}
}

func (a *App) reload(path string) {
	cfg, err := config.Load(path)
	if err != nil {
		a.logger.Warn("config reload rejected", "path", path, "err", err)
		return
	}
	a.controller.SetTuning(cfg.Tuning())
	a.config.Config = cfg
	a.logger.Info("config reloaded, applies at next session", "path", path)
}

// publish stores snap and the processed frame for other goroutines. It
// takes ownership of processed.
func (a *App) publish(snap game.Snapshot, processed gocv.Mat, ok bool) {
	var preview *image.RGBA
	if ok {
		preview = a.toPreview(processed)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshot = snap
	if !ok {
		return
	}
	a.frame.Close()
	a.frame = processed
	a.hasFrame = true
	if preview != nil {
		a.preview = preview
	}
}

// toPreview scales a BGR frame to the configured preview size as RGBA.
func (a *App) toPreview(frame gocv.Mat) *image.RGBA {
	pw, ph := a.config.Config.Tracker.PreviewWidth, a.config.Config.Tracker.PreviewHeight
	if pw <= 0 || ph <= 0 || frame.Empty() {
		return nil
	}

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(frame, &scaled, image.Pt(pw, ph), 0, 0, gocv.InterpolationLinear)

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(scaled, &rgba, gocv.ColorBGRToRGBA)

	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	copy(img.Pix, rgba.ToBytes())
	return img
}

// Run drives the loop at the configured tick rate without a window until
// ctx is cancelled. Actions arrive through Post.
func (a *App) Run(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) * a.controller.Tuning().TickSeconds())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.Info("headless loop started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.Step(game.Actions{})
		}
	}
}
