package posekit

import "time"

const frameInterval = time.Second / 60

// Start begins the continuous render-and-outline-refresh loop on its own
// goroutine. Starting an already running loop is a no-op.
func (a *App) Start() {
	a.loopMu.Lock()
	defer a.loopMu.Unlock()
	if a.running {
		return
	}
	a.running = true
	a.stopCh = make(chan struct{})
	go a.runLoop(a.stopCh)
}

// Stop cancels the loop. Safe to call repeatedly and before Start.
func (a *App) Stop() {
	a.loopMu.Lock()
	defer a.loopMu.Unlock()
	if !a.running {
		return
	}
	a.running = false
	close(a.stopCh)
}

// Running reports whether the loop is active.
func (a *App) Running() bool {
	a.loopMu.Lock()
	defer a.loopMu.Unlock()
	return a.running
}

func (a *App) runLoop(stop chan struct{}) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.Tick()
		}
	}
}

// Tick advances one frame: drain pending pose-file imports, sync the orbit
// camera, refresh the selection outline, render. Hosts that own their own
// frame callback (vsync) can skip Start and call Tick directly.
func (a *App) Tick() {
	if a.Watcher != nil {
		if files := a.Watcher.Drain(); len(files) > 0 {
			a.ImportFiles(files)
		}
	}
	a.Orbit.Update()
	a.Selection.Tick()
	a.RenderOnce()
}
