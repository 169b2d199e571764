package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/miradorstack/broadcast-response/internal/models"
	"github.com/miradorstack/broadcast-response/internal/utils"
)

// Policy flag names, as published in the app-standby configuration namespace.
const (
	KeyWindowDuration      = "broadcast_response_window_timeout_ms"
	KeyForegroundThreshold = "broadcast_response_fg_threshold_state"
)

// ParsePolicyOverrides decodes a flat YAML flag file. Flags outside the policy are
// returned as ignored so callers can report them.
func ParsePolicyOverrides(data []byte) (models.PolicyOverrides, []string, error) {
	var flags map[string]any
	if err := yaml.Unmarshal(data, &flags); err != nil {
		return models.PolicyOverrides{}, nil, utils.NewAppError("policy overrides", "parse flags", err)
	}

	var (
		out     models.PolicyOverrides
		ignored []string
	)
	for key, raw := range flags {
		if raw == nil {
			continue
		}
		value := fmt.Sprint(raw)
		switch key {
		case KeyWindowDuration:
			d, err := utils.ParseMillisOrDuration(value)
			if err != nil {
				return models.PolicyOverrides{}, nil, utils.NewFieldError("policy overrides", key, "invalid duration", err)
			}
			out.WindowDuration = &d
		case KeyForegroundThreshold:
			class, err := models.ParseImportanceClass(value)
			if err != nil {
				return models.PolicyOverrides{}, nil, utils.NewFieldError("policy overrides", key, "invalid importance class", err)
			}
			out.ForegroundThreshold = &class
		default:
			ignored = append(ignored, key)
		}
	}
	sort.Strings(ignored)
	return out, ignored, nil
}

// LoadPolicyOverrides reads the flag file at path. A missing file yields empty overrides.
func LoadPolicyOverrides(path string) (models.PolicyOverrides, []string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.PolicyOverrides{}, nil, nil
	}
	if err != nil {
		return models.PolicyOverrides{}, nil, fmt.Errorf("read policy overrides: %w", err)
	}
	return ParsePolicyOverrides(data)
}

// WatchPolicyOverrides applies the flag file at path once and again after every change,
// until ctx is done. The parent directory is watched so editors that replace the file
// atomically are picked up. Files that fail to parse are logged and skipped, leaving the
// previous policy in place.
func WatchPolicyOverrides(ctx context.Context, path string, logger *slog.Logger, apply func(models.PolicyOverrides) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create policy watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	reload := func() {
		overrides, ignored, err := LoadPolicyOverrides(path)
		if err != nil {
			logger.Warn("policy overrides rejected",
				slog.String("path", path),
				slog.String("flag", utils.FieldOf(err)),
				slog.Any("error", err))
			return
		}
		if len(ignored) > 0 {
			logger.Debug("unrelated flags ignored", slog.Any("flags", ignored))
		}
		if err := apply(overrides); err != nil {
			logger.Warn("policy overrides not applied", slog.String("path", path), slog.Any("error", err))
			return
		}
		logger.Info("policy overrides applied", slog.String("path", path), slog.Bool("empty", overrides.Empty()))
	}

	reload()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("policy watcher error", slog.Any("error", err))
		}
	}
}
