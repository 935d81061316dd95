package posekit

import (
	"image"
	"image/color"
	"time"
)

// recordingNotifier captures toast messages for assertions.
type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(message string, duration time.Duration) {
	r.messages = append(r.messages, message)
}

func (r *recordingNotifier) last() string {
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}

// stubPrompter returns canned prompt/confirm answers.
type stubPrompter struct {
	promptText string
	promptOK   bool
	confirmOK  bool
}

func (s *stubPrompter) Prompt(message, initial string) (string, bool) {
	return s.promptText, s.promptOK
}

func (s *stubPrompter) Confirm(message string) bool { return s.confirmOK }

// memPoseFile is an in-memory PoseFile for import tests.
type memPoseFile struct {
	name string
	text string
}

func (f memPoseFile) Name() string          { return f.name }
func (f memPoseFile) Text() (string, error) { return f.text, nil }

// testFrame builds a solid-color frame for thumbnail tests.
func testFrame(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 60, B: 90, A: 255})
		}
	}
	return img
}

// newTestGallery wires a gallery against in-memory collaborators. The
// returned notifier records every toast.
func newTestGallery(world *World) (*Gallery, *MemStorage, *recordingNotifier) {
	storage := NewMemStorage()
	notify := &recordingNotifier{}
	g := NewGallery(NewNopLogger(), notify, storage, &stubPrompter{}, nil)
	g.Serialize = func() (*Pose, error) { return SerializePose(world, "") }
	g.Capture = func() (string, error) { return "data:image/png;base64,dGVzdA==", nil }
	return g, storage, notify
}
