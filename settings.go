package settings

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/afero"
	modellib "github.com/ygrebnov/model"

	"github.com/ygrebnov/settings/streams"
)

// Exported error categories returned by this package. They are wrapped so
// callers can detect them with errors.Is.
//   - ErrNotFound: Load found no settings file. Also matches os.ErrNotExist.
//   - ErrRead: the settings file exists but could not be read.
//   - ErrParse: the stored content does not decode into T.
//   - ErrFormat: the value could not be encoded.
//   - ErrEnsureSettingsDir: the settings directory could not be created.
//   - ErrWrite: the settings file could not be written.
//   - ErrDelete: the settings file or directory could not be removed.
//   - ErrClone: SetFunc could not copy the current value.
//   - ErrNilValue: Set was given a nil value.
//   - ErrChangeRejected: an observer returned an error; the value was not replaced.
var (
	ErrNotFound          = errors.New("settings file not found")
	ErrRead              = errors.New("read settings file")
	ErrParse             = errors.New("parse settings")
	ErrFormat            = errors.New("format settings")
	ErrEnsureSettingsDir = errors.New("ensure settings dir")
	ErrWrite             = errors.New("write to settings file")
	ErrDelete            = errors.New("delete settings")
	ErrClone             = errors.New("clone settings")
	ErrNilValue          = errors.New("nil settings value")
	ErrChangeRejected    = errors.New("settings change rejected")
)

// Configuration keeps one value of type T in sync with a single settings file.
//
// The stored value is exposed by reference through Data. Changing its fields
// directly is allowed but does not notify observers; only Set, SetFunc,
// SetFuncInPlace, Load and LoadOrCreate replace the value and notify.
//
// A Configuration holds no locks and no open files between calls. It is not
// safe for concurrent use.
type Configuration[T any] struct {
	opts      Options
	dir       string
	path      string
	data      *T
	fs        afero.Fs
	codec     Codec
	defaultFn func() *T
	modelInit ModelInit[T]
	streams   streams.IOStreams
	observers observers[T]
}

// Option configures a Configuration at construction time.
type Option[T any] func(*Configuration[T])

// ModelInit binds a model.Model[T] to a freshly constructed *T so that
// `default` struct tags can fill its zero fields.
type ModelInit[T any] func(*T) (*modellib.Model[T], error)

// New constructs a Configuration for T. A nil opts uses DefaultOptions.
// Blank fields of opts are filled in place (SettingsName becomes the name of
// T); the Configuration keeps its own copy, so later changes to opts have no
// effect on its paths.
//
// The initial value is a new default T. New panics if WithModel is set and the
// default value cannot be prepared.
func New[T any](opts *Options, options ...Option[T]) *Configuration[T] {
	if opts == nil {
		o := DefaultOptions()
		opts = &o
	}
	opts.fillDefaults(typeName[T]())

	c := &Configuration[T]{
		opts: *opts,
		dir:  opts.dir(),
		path: opts.filePath(),
	}
	for _, opt := range options {
		opt(c)
	}

	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if c.codec == nil {
		c.codec = CodecFor(c.opts.SettingsExtension)
	}
	if c.defaultFn == nil {
		c.defaultFn = func() *T { var t T; return &t }
	}

	data, err := c.newDefault()
	if err != nil {
		panic(fmt.Sprintf("settings: New: %v", err))
	}
	c.data = data

	return c
}

// WithFs sets the filesystem used for all file operations. Panics if fs is nil.
func WithFs[T any](fs afero.Fs) Option[T] {
	return func(c *Configuration[T]) {
		if fs == nil {
			panic("settings: WithFs: fs cannot be nil")
		}
		c.fs = fs
	}
}

// WithCodec overrides the codec chosen from the settings extension.
// Panics if codec is nil.
func WithCodec[T any](codec Codec) Option[T] {
	return func(c *Configuration[T]) {
		if codec == nil {
			panic("settings: WithCodec: codec cannot be nil")
		}
		c.codec = codec
	}
}

// WithDefaultFn registers the factory for default values of T. It is used for
// the initial value, by LoadOrCreate when no initial value is given, and as the
// base that Load decodes into. Panics if fn is nil.
func WithDefaultFn[T any](fn func() *T) Option[T] {
	return func(c *Configuration[T]) {
		if fn == nil {
			panic("settings: WithDefaultFn: fn cannot be nil")
		}
		c.defaultFn = fn
	}
}

// WithModel enables github.com/ygrebnov/model integration. Every default value
// produced by the Configuration is passed to init and then to SetDefaults, so
// `default` struct tags fill fields the factory left zero.
// Validation is not performed. Panics if init is nil.
func WithModel[T any](init ModelInit[T]) Option[T] {
	return func(c *Configuration[T]) {
		if init == nil {
			panic("settings: WithModel: init cannot be nil")
		}
		c.modelInit = init
	}
}

// WithStreams routes user-facing messages ("created", "loaded", "saved",
// "deleted") to s.Out() and warnings about rejected changes to s.ErrOut().
// Without it the Configuration writes nothing.
func WithStreams[T any](s streams.IOStreams) Option[T] {
	return func(c *Configuration[T]) {
		c.streams = s
	}
}

// Data returns the stored value by reference.
func (c *Configuration[T]) Data() *T { return c.data }

// Options returns a copy of the resolved options.
func (c *Configuration[T]) Options() Options { return c.opts }

// Dir returns the settings directory, SettingsPath/ProgramName.
func (c *Configuration[T]) Dir() string { return c.dir }

// Path returns the settings file path.
func (c *Configuration[T]) Path() string { return c.path }

// OnChange registers fn to run before every replacement of the stored value.
// Observers run in registration order. The returned func unregisters fn.
func (c *Configuration[T]) OnChange(fn ChangeFunc[T]) (remove func()) {
	if fn == nil {
		panic("settings: OnChange: fn cannot be nil")
	}
	return c.observers.add(fn)
}

// SaveExists reports whether the settings file exists.
func (c *Configuration[T]) SaveExists() bool {
	return fileExists(c.fs, c.path)
}

// Load reads the settings file and replaces the stored value with its content.
// Fields missing from the file keep their default values, except maps, which
// hold exactly the entries stored in the file.
// It returns an error wrapping ErrNotFound if the file does not exist.
func (c *Configuration[T]) Load() error {
	data, err := readFile(c.fs, c.path)
	if err != nil {
		return err
	}

	v, err := c.newDefault()
	if err != nil {
		return err
	}
	clearMaps(reflect.ValueOf(v))
	if err := decode(c.codec, data, v); err != nil {
		return fmt.Errorf("%s: %w", c.path, err)
	}

	if err := c.replace(v); err != nil {
		return err
	}
	c.printf("settings: loaded from %s\n", c.path)
	return nil
}

// LoadOrCreate behaves like Load when the settings file exists. Otherwise it
// writes initial, or a new default value when initial is nil, to the file and
// stores it.
func (c *Configuration[T]) LoadOrCreate(initial *T) error {
	if c.SaveExists() {
		return c.Load()
	}

	if initial == nil {
		v, err := c.newDefault()
		if err != nil {
			return err
		}
		initial = v
	}

	if err := c.write(initial); err != nil {
		return err
	}
	c.printf("settings: created new settings at %s\n", c.path)

	return c.replace(initial)
}

// Save writes the stored value to the settings file, creating the settings
// directory if needed. Observers are not notified.
func (c *Configuration[T]) Save() error {
	if err := c.write(c.data); err != nil {
		return err
	}
	c.printf("settings: saved to %s\n", c.path)
	return nil
}

// Set replaces the stored value with v.
func (c *Configuration[T]) Set(v *T) error {
	if v == nil {
		return ErrNilValue
	}
	return c.replace(v)
}

// SetFunc applies fn to a deep copy of the stored value and stores the copy.
// The copy is made by an encode/decode round trip through the codec, so
// observers receive distinct before and after values.
func (c *Configuration[T]) SetFunc(fn func(*T)) error {
	clone, err := c.clone()
	if err != nil {
		return err
	}
	fn(clone)
	return c.replace(clone)
}

// SetFuncInPlace applies fn directly to the stored value and notifies
// observers with the same pointer as before and after. The mutation is
// already applied when observers run, so it stays in place even if an
// observer rejects the change.
func (c *Configuration[T]) SetFuncInPlace(fn func(*T)) error {
	fn(c.data)
	return c.replace(c.data)
}

// Delete removes the settings file. Unless onlySettings is true the whole
// settings directory is removed as well. Missing targets are not an error.
func (c *Configuration[T]) Delete(onlySettings bool) error {
	if err := removeFile(c.fs, c.path); err != nil {
		return err
	}
	if !onlySettings {
		if err := removeDir(c.fs, c.dir); err != nil {
			return err
		}
		c.printf("settings: deleted %s\n", c.dir)
		return nil
	}
	c.printf("settings: deleted %s\n", c.path)
	return nil
}

// ToString returns the stored value in its on-disk text form.
func (c *Configuration[T]) ToString() (string, error) {
	b, err := encode(c.codec, c.data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// String implements fmt.Stringer. Encoding failures are rendered inline.
func (c *Configuration[T]) String() string {
	s, err := c.ToString()
	if err != nil {
		return fmt.Sprintf("<%s: %v>", c.path, err)
	}
	return s
}

// replace notifies observers and then stores v. An observer error keeps the
// old pointer stored; changes already made through it are not undone.
func (c *Configuration[T]) replace(v *T) error {
	if err := c.observers.notify(c.data, v); err != nil {
		c.warnf("settings: warning: change rejected by observer: %v\n", err)
		return fmt.Errorf("%w: %w", ErrChangeRejected, err)
	}
	c.data = v
	return nil
}

func (c *Configuration[T]) write(v *T) error {
	b, err := encode(c.codec, v)
	if err != nil {
		return err
	}
	if err := ensureDir(c.fs, c.dir); err != nil {
		return fmt.Errorf("%w %s: %w", ErrEnsureSettingsDir, c.dir, err)
	}
	return writeFile(c.fs, c.path, b)
}

func (c *Configuration[T]) clone() (*T, error) {
	b, err := encode(c.codec, c.data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClone, err)
	}
	v := new(T)
	if err := decode(c.codec, b, v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClone, err)
	}
	return v, nil
}

// newDefault builds a default value from the factory and, with WithModel,
// fills zero fields from `default` tags.
func (c *Configuration[T]) newDefault() (*T, error) {
	v := c.defaultFn()
	if v == nil {
		v = new(T)
	}
	if c.modelInit == nil {
		return v, nil
	}

	mdl, err := c.modelInit(v)
	if err != nil {
		return nil, err
	}
	if mdl != nil {
		if err := mdl.SetDefaults(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (c *Configuration[T]) printf(format string, args ...any) {
	if c.streams != nil && c.streams.Out() != nil {
		fmt.Fprintf(c.streams.Out(), format, args...)
	}
}

func (c *Configuration[T]) warnf(format string, args ...any) {
	if c.streams != nil && c.streams.ErrOut() != nil {
		fmt.Fprintf(c.streams.ErrOut(), format, args...)
	}
}

// clearMaps sets every map reachable through structs and pointers in v to nil,
// so decoders that merge into existing maps start from an empty one.
func clearMaps(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			clearMaps(v.Elem())
		}
	case reflect.Map:
		if v.CanSet() {
			v.SetZero()
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				clearMaps(v.Field(i))
			}
		}
	}
}
