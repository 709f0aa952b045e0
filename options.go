package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

const (
	defaultExtension    = "json"
	defaultProgramName  = "app"
	defaultSettingsName = "settings"
)

// Options describes where a settings file lives. The file path is
// SettingsPath/ProgramName/SettingsName.SettingsExtension.
type Options struct {
	// ProgramName is the directory created under SettingsPath.
	ProgramName string
	// SettingsExtension is the file extension without the leading dot. It also
	// selects the codec: "yaml"/"yml" and "toml" have their own, anything else is JSON.
	SettingsExtension string
	// SettingsName is the file name without extension. Defaults to the name
	// of the stored type.
	SettingsName string
	// SettingsPath is the base directory. Defaults to the per-user
	// configuration directory.
	SettingsPath string
}

// DefaultOptions returns Options with ProgramName, SettingsExtension and
// SettingsPath filled. SettingsName is left blank; New sets it from the type.
func DefaultOptions() Options {
	return Options{
		ProgramName:       programName(),
		SettingsExtension: defaultExtension,
		SettingsPath:      userSettingsDir(),
	}
}

// fillDefaults sets every blank field of o. typeName is used for SettingsName.
func (o *Options) fillDefaults(typeName string) {
	if strings.TrimSpace(o.ProgramName) == "" {
		o.ProgramName = programName()
	}
	if strings.TrimSpace(o.SettingsExtension) == "" {
		o.SettingsExtension = defaultExtension
	}
	o.SettingsExtension = strings.TrimPrefix(o.SettingsExtension, ".")
	if strings.TrimSpace(o.SettingsName) == "" {
		o.SettingsName = typeName
	}
	if strings.TrimSpace(o.SettingsPath) == "" {
		o.SettingsPath = userSettingsDir()
	}
}

func (o Options) dir() string {
	return filepath.Join(o.SettingsPath, o.ProgramName)
}

func (o Options) filePath() string {
	return filepath.Join(o.dir(), o.SettingsName+"."+o.SettingsExtension)
}

// userSettingsDir prefers XDG_CONFIG_HOME when set explicitly. On Windows it
// then uses the roaming %APPDATA% directory; xdg.ConfigHome points at
// %LOCALAPPDATA% there. Other platforms use the directory resolved by xdg.
func userSettingsDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		if dir, err := os.UserConfigDir(); err == nil {
			return dir
		}
	}
	return xdg.ConfigHome
}

func programName() string {
	exe, err := os.Executable()
	if err != nil || exe == "" {
		if len(os.Args) == 0 || os.Args[0] == "" {
			return defaultProgramName
		}
		exe = os.Args[0]
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return defaultProgramName
	}
	return name
}

// typeName returns the declared name of T, looking through pointers.
// Unnamed types such as map[string]int get a generic name.
func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return defaultSettingsName
}
