package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/slyde/internal/debuglog"
)

//go:embed players.toml
var playersTOML []byte

// ViewerDefinition defines how an image viewer should be invoked
type ViewerDefinition struct {
	Description string      `toml:"description"`
	Platforms   []string    `toml:"platforms"`
	Image       *ViewerArgs `toml:"image,omitempty"`
}

// ViewerArgs holds the arguments placed before the image URL.
type ViewerArgs struct {
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
	Fullscreen  []string `toml:"fullscreen,omitempty"`
}

type playersFile struct {
	Players map[string]ViewerDefinition `toml:"players"`
}

// ViewerRegistry manages viewer definitions
type ViewerRegistry struct {
	viewers map[string]ViewerDefinition
}

// NewViewerRegistry parses the embedded definitions and merges the user's
// override files on top. Missing override files are ignored.
func NewViewerRegistry(overrides ...string) (*ViewerRegistry, error) {
	var file playersFile
	if err := toml.Unmarshal(playersTOML, &file); err != nil {
		return nil, fmt.Errorf("parsing players.toml: %w", err)
	}

	r := &ViewerRegistry{viewers: file.Players}
	if r.viewers == nil {
		r.viewers = make(map[string]ViewerDefinition)
	}

	if len(overrides) == 0 {
		overrides = defaultOverridePaths()
	}
	for _, path := range overrides {
		r.merge(path)
	}
	return r, nil
}

func defaultOverridePaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".config", "slyde", "players.toml")}
}

func (r *ViewerRegistry) merge(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var user playersFile
	if err := toml.Unmarshal(data, &user); err != nil {
		debuglog.Warnf("ignoring %s: %v", path, err)
		return
	}
	for name, def := range user.Players {
		r.viewers[name] = def
	}
}

// GetCommand builds the command line for viewer opening url.
func (r *ViewerRegistry) GetCommand(viewer, url string, fullscreen bool) (*exec.Cmd, error) {
	def, exists := r.viewers[viewer]
	if !exists {
		return exec.Command(viewer, url), nil
	}

	if !slices.Contains(def.Platforms, runtime.GOOS) {
		return nil, fmt.Errorf("%s not supported on %s", viewer, runtime.GOOS)
	}
	if def.Image == nil {
		return nil, fmt.Errorf("%s can't display images", viewer)
	}

	args := slices.Clone(platformArgs(def.Image))
	if fullscreen {
		args = append(args, def.Image.Fullscreen...)
	}
	args = append(args, url)

	return exec.Command(viewer, args...), nil
}

// platformArgs prefers the current platform's args over the generic ones.
func platformArgs(a *ViewerArgs) []string {
	if a == nil {
		return nil
	}

	switch runtime.GOOS {
	case "darwin":
		if len(a.ArgsDarwin) > 0 {
			return a.ArgsDarwin
		}
	case "linux":
		if len(a.ArgsLinux) > 0 {
			return a.ArgsLinux
		}
	case "windows":
		if len(a.ArgsWindows) > 0 {
			return a.ArgsWindows
		}
	}
	return a.Args
}

// Has reports whether a definition exists for viewer.
func (r *ViewerRegistry) Has(viewer string) bool {
	_, ok := r.viewers[viewer]
	return ok
}
