package posekit

import (
	"fmt"
	"os"
	"sync"
)

// Renderer is the external drawing collaborator. The core never draws; it
// hands the renderer the world and camera and lets it produce a frame.
type Renderer interface {
	Render(world *World, camera *Camera) error
	Resize(width, height int)
}

// Options are the optional host collaborators for Boot. Every field may be
// nil; the app substitutes inert defaults.
type Options struct {
	Log     Logger
	Notify  Notifier
	Storage Storage
	Prompt  Prompter
	View    GalleryView
	Status  ModeStatus

	Renderer Renderer
	Frames   FrameSource
	Viewport Viewport
}

// App is the explicitly owned application context. Every component hangs
// off it and receives its collaborators at construction; there are no
// ambient singletons.
type App struct {
	Config Config
	Log    Logger
	Notify Notifier

	World     *World
	Camera    *Camera
	Orbit     *OrbitController
	Gizmo     *TransformGizmo
	Input     *InputManager
	Modes     *Modes
	Selection *Selection
	Gallery   *Gallery
	Presets   *Presets
	Watcher   *PoseWatcher

	renderer Renderer
	thumbs   Thumbnailer

	notes     string
	modalOpen bool

	width  int
	height int

	// Render loop state, driven from loop.go.
	loopMu  sync.Mutex
	running bool
	stopCh  chan struct{}

	unsubscribers []func()
}

// Boot builds and wires the whole editor. All initialization failures
// funnel through the single returned error; nothing below Boot needs a
// second fatal path.
func Boot(cfg Config, opts Options) (*App, error) {
	log := opts.Log
	if log == nil {
		log = NewDefaultLogger("posekit", cfg.Debug)
	}
	notify := orLogNotifier(opts.Notify, log)

	storage := opts.Storage
	if storage == nil {
		if cfg.GalleryDir == "" {
			storage = NewMemStorage()
		} else {
			storage = NewFileStorage(cfg.GalleryDir)
		}
	}

	app := &App{
		Config:   cfg,
		Log:      log,
		Notify:   notify,
		World:    NewWorld(),
		Camera:   NewCamera(),
		Gizmo:    NewTransformGizmo(),
		renderer: opts.Renderer,
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
	}

	BuildCharacter(app.World)

	app.Orbit = NewOrbitController(app.Camera)
	app.Modes = NewModes(log, notify, app.Gizmo, app.Orbit, opts.Status)
	app.Modes.SetSnapDeg(cfg.SnapDeg)

	viewport := opts.Viewport
	if viewport == nil {
		viewport = ViewportFunc(func() (int, int, int, int) {
			return 0, 0, app.width, app.height
		})
	}

	app.Selection = NewSelection(log, notify, app.World, app.Camera, app.Orbit, app.Gizmo, app.Modes, viewport)
	app.Selection.ModalOpen = app.IsModalOpen
	app.Selection.ShowOutline = func() bool { return app.Config.ShowOutline }

	if opts.Frames != nil {
		app.thumbs = NewPNGThumbnailer(opts.Frames)
	}

	app.Gallery = NewGallery(log, notify, storage, opts.Prompt, opts.View)
	app.Gallery.Serialize = func() (*Pose, error) { return SerializePose(app.World, app.notes) }
	app.Gallery.Notes = func() string { return app.notes }
	if app.thumbs != nil {
		app.Gallery.Capture = func() (string, error) {
			app.RenderOnce()
			return app.thumbs.Capture()
		}
	}

	app.Presets = NewPresets(log, notify, app.applyDeps(), app.Gallery)
	app.Presets.AutoApply = cfg.AutoApplyPresets

	if cfg.ImportDir != "" {
		if err := os.MkdirAll(cfg.ImportDir, 0755); err != nil {
			return nil, fmt.Errorf("boot: import dir: %w", err)
		}
		app.Watcher = NewPoseWatcher(log, cfg.ImportDir)
		if err := app.Watcher.Start(); err != nil {
			return nil, fmt.Errorf("boot: pose watcher: %w", err)
		}
	}

	app.Input = NewInputManager(log)
	app.Input.ModalOpen = app.IsModalOpen
	app.wireInput()

	log.Infof("posekit booted: %d joints, %d presets", len(app.World.Joints), len(app.Presets.List()))
	return app, nil
}

func (a *App) wireInput() {
	a.unsubscribers = append(a.unsubscribers,
		a.Input.On(PointerDown, func(ev Event) {
			if ev.Button == 0 {
				a.Selection.OnPointerDown(ev)
			}
		}),
		a.Input.On(KeyDown, func(ev Event) {
			a.Modes.HandleShortcut(ev.KeyLower)
			a.Selection.HandleKey(ev)
		}),
		a.Input.On(WindowResize, func(ev Event) {
			a.Resize(ev.Width, ev.Height)
		}),
	)
}

func (a *App) applyDeps() *ApplyDeps {
	return &ApplyDeps{
		World:          a.World,
		OnPropRemoved:  func(n *Node) { a.Selection.ClearIfRemoved(n) },
		RefreshOutline: func() { a.Selection.UpdateOutline() },
		RenderOnce:     func() { a.RenderOnce() },
	}
}

// SetModalOpen toggles the modal gate shared by input and selection.
func (a *App) SetModalOpen(open bool) { a.modalOpen = open }
func (a *App) IsModalOpen() bool      { return a.modalOpen }

// SetNotes stores the notes text serialized into saved poses.
func (a *App) SetNotes(text string) { a.notes = text }
func (a *App) NotesText() string    { return a.notes }

// Resize records the new canvas size and forwards it to the renderer.
// Idempotent: the resize observer and the window event can both fire in one
// frame with the same dimensions.
func (a *App) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.width = width
	a.height = height
	if a.renderer != nil {
		a.renderer.Resize(width, height)
	}
}

// RenderOnce produces a single frame outside the loop, for thumbnail
// capture and post-apply refreshes.
func (a *App) RenderOnce() {
	if a.renderer == nil {
		return
	}
	if err := a.renderer.Render(a.World, a.Camera); err != nil {
		a.Log.Warnf("render: %v", err)
	}
}

// LoadPoseFile reads, parses and applies one pose file.
func (a *App) LoadPoseFile(path string) error {
	text, err := OSPoseFile{Path: path}.Text()
	if err != nil {
		return fmt.Errorf("load pose: %w", err)
	}
	pose, err := ParsePose(text)
	if err != nil {
		return err
	}
	if err := ApplyPose(pose, a.applyDeps()); err != nil {
		return err
	}
	a.Notify.Notify("Pose loaded", defaultToastDuration)
	return nil
}

// ExportPose serializes the current pose to a JSON file on disk.
func (a *App) ExportPose(path string) error {
	pose, err := SerializePose(a.World, a.notes)
	if err != nil {
		return err
	}
	data, err := EncodePose(pose)
	if err != nil {
		return fmt.Errorf("export pose: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("export pose: %w", err)
	}
	return nil
}

// ImportFiles runs a best-effort batch import of pose files.
func (a *App) ImportFiles(files []PoseFile) int {
	return ImportPosePack(files, &ImportDeps{
		ApplyDeps: *a.applyDeps(),
		Gallery:   a.Gallery,
		Log:       a.Log,
		Notify:    a.Notify,
	})
}

// ResetPose puts every joint back at identity and clears the props.
func (a *App) ResetPose() {
	a.World.ResetAllJointRotations()
	for _, p := range append([]*Node(nil), a.World.Props...) {
		a.Selection.ClearIfRemoved(p)
	}
	a.World.ClearProps()
	a.Selection.UpdateOutline()
	a.RenderOnce()
}

// Destroy tears the app down: loop, watcher, input subscriptions.
func (a *App) Destroy() {
	a.Stop()
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	for _, unsub := range a.unsubscribers {
		unsub()
	}
	a.unsubscribers = nil
	a.Modes.Destroy()
	a.Input.Destroy()
}
