// Package settings keeps a value of any serializable type in a per-program
// settings file and reloads it later.
//
// It supports:
//  1. Deriving the file path SettingsPath/ProgramName/SettingsName.SettingsExtension,
//     with SettingsPath defaulting to the user configuration directory and
//     SettingsName to the name of the stored type.
//  2. JSON (default), YAML and TOML encodings selected by the file extension.
//  3. Change observers that run whenever the stored value is replaced through
//     Set, SetFunc, SetFuncInPlace, Load or LoadOrCreate.
//  4. Optional integration with github.com/ygrebnov/model to fill new default
//     values from `default` struct tags.
//  5. Any github.com/spf13/afero filesystem, e.g. an in-memory one for tests.
//
// Typical usage:
//
//	cfg := settings.New[Prefs](&settings.Options{ProgramName: "myapp"})
//	cfg.OnChange(func(before, after *Prefs) error {
//	    log.Printf("theme %s -> %s", before.Theme, after.Theme)
//	    return nil
//	})
//	if err := cfg.LoadOrCreate(nil); err != nil {
//	    log.Fatal(err)
//	}
//	_ = cfg.SetFunc(func(p *Prefs) { p.Theme = "dark" })
//	if err := cfg.Save(); err != nil {
//	    log.Fatal(err)
//	}
package settings
