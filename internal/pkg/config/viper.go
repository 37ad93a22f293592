package config

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DUOWEB_DUO_SECRET_KEY for duo.secret_key.
const EnvPrefix = "DUOWEB"

// ErrConfigType is returned by NewViperFromBytes without a config type.
var ErrConfigType = errors.New("config: config type is required")

// Viper is a Config backed by spf13/viper.
//
// A file-backed Viper reloads itself when the file changes. Each reload
// builds a fresh viper instance and swaps it in, so readers never observe a
// half-read file and a broken edit keeps the previous values.
type Viper struct {
	cur atomic.Pointer[viper.Viper]

	path    string
	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
	once    sync.Once
}

// NewViper loads the file at pathFile, its type inferred from the extension,
// and watches it for changes. Environment variables with EnvPrefix take
// precedence over file values.
func NewViper(pathFile string) (*Viper, error) {
	v, err := readFile(pathFile)
	if err != nil {
		return nil, err
	}

	vc := &Viper{path: filepath.Clean(pathFile)}
	vc.cur.Store(v)

	// The directory is watched rather than the file: editors and mounted
	// config maps replace the file instead of writing it in place.
	w, err := fsnotify.NewWatcher()
	if err == nil {
		err = w.Add(filepath.Dir(vc.path))
	}
	if err != nil {
		slog.Warn("config watch disabled", "path", pathFile, "error", err)
		if w != nil {
			_ = w.Close()
		}
		return vc, nil
	}

	vc.watcher = w
	vc.wg.Add(1)
	go vc.watch()

	return vc, nil
}

// NewViperFromBytes loads configuration from memory. configType is a format
// viper understands, e.g. "yaml" or "json".
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, ErrConfigType
	}

	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	vc := &Viper{}
	vc.cur.Store(v)

	return vc, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func readFile(path string) (*viper.Viper, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return v, nil
}

func (vc *Viper) watch() {
	defer vc.wg.Done()

	for {
		select {
		case ev, ok := <-vc.watcher.Events:
			if !ok {
				return
			}
			if !vc.relevant(ev) {
				continue
			}
			vc.reload()

		case err, ok := <-vc.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("config watcher failed", "path", vc.path, "error", err)
		}
	}
}

// relevant reports whether ev may have changed the file content. "..data" is
// the symlink swapped by Kubernetes when a mounted config map changes.
func (vc *Viper) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}

	name := filepath.Clean(ev.Name)
	return name == vc.path || filepath.Base(name) == "..data"
}

func (vc *Viper) reload() {
	v, err := readFile(vc.path)
	if err != nil {
		slog.Error("config reload failed, keeping previous values", "path", vc.path, "error", err)
		return
	}

	vc.cur.Store(v)
	slog.Info("config reloaded", "path", vc.path)
}

func (vc *Viper) get() *viper.Viper {
	return vc.cur.Load()
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool { return vc.get().GetBool(key) }

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string { return vc.get().GetString(key) }

// GetInt returns the value for key as int.
func (vc *Viper) GetInt(key string) int { return vc.get().GetInt(key) }

// GetUint64 returns the value for key as uint64.
func (vc *Viper) GetUint64(key string) uint64 { return vc.get().GetUint64(key) }

// GetFloat64 returns the value for key as float64.
func (vc *Viper) GetFloat64(key string) float64 { return vc.get().GetFloat64(key) }

// GetSecond returns the integer value for key as a number of seconds.
func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.get().GetInt64(key)) * time.Second
}

// GetArray accepts a YAML list, a comma separated string, or a mix of both
// (e.g. from an environment override).
func (vc *Viper) GetArray(key string) []string {
	parts := lo.FlatMap(vc.get().GetStringSlice(key), func(item string, _ int) []string {
		return strings.Split(item, ",")
	})

	return lo.FilterMap(parts, func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}

// Close stops watching the file. It is safe to call more than once.
func (vc *Viper) Close() error {
	var err error
	vc.once.Do(func() {
		if vc.watcher == nil {
			return
		}
		err = vc.watcher.Close()
		vc.wg.Wait()
	})

	return err
}
