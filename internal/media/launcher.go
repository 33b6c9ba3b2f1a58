package media

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/pders01/slyde/internal/config"
	"github.com/pders01/slyde/internal/debuglog"
)

var ErrUnsupportedURL = errors.New("only http and https image URLs can be opened")

// Launcher opens slide images in an external viewer.
type Launcher struct {
	viewer        string
	defaultOpener string
	registry      *ViewerRegistry
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewViewerRegistry()
	if err != nil {
		debuglog.Warnf("viewer definitions unavailable: %v", err)
		registry = &ViewerRegistry{viewers: make(map[string]ViewerDefinition)}
	}

	l := &Launcher{
		defaultOpener: cfg.Media.DefaultOpener,
		registry:      registry,
	}

	var viewers []string
	switch runtime.GOOS {
	case "darwin":
		viewers = cfg.Media.Darwin
	case "linux":
		viewers = cfg.Media.Linux
	case "windows":
		viewers = cfg.Media.Windows
	default:
		viewers = cfg.Media.Linux
	}

	l.viewer = findCommand(viewers...)
	if l.viewer == "" {
		l.viewer = l.defaultOpener
	}
	return l
}

// Viewer returns the command images are opened with.
func (l *Launcher) Viewer() string {
	return l.viewer
}

// Open starts the viewer for imageURL without waiting for it to exit.
func (l *Launcher) Open(imageURL string, fullscreen bool) error {
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrUnsupportedURL
	}

	viewer := l.viewer
	if viewer == "" {
		viewer = l.defaultOpener
	}
	if viewer == "" {
		return fmt.Errorf("no image viewer found")
	}

	var cmd *exec.Cmd
	if viewer == "start" && runtime.GOOS == "windows" {
		// start is a cmd.exe builtin
		cmd = exec.Command("cmd", "/c", "start", "", imageURL)
	} else {
		cmd, err = l.registry.GetCommand(viewer, imageURL, fullscreen)
		if err != nil {
			debuglog.Debugf("falling back to plain %s: %v", viewer, err)
			cmd = exec.Command(viewer, imageURL)
		}
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", viewer, err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
