package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/storage"
)

type StorageConfig struct {
	// Commands holds scripted command assets. Optional.
	Commands AssetConfig[*commands.ScriptSpec] `json:"commands"`
}

func (c *StorageConfig) Validate() error {
	el := errors.NewErrorList()
	if c.Commands.Path != "" {
		el.Add(c.Commands.Validate("commands"))
	}
	return el.Err()
}

// BuildScriptStore loads the scripted commands, or returns nil when none are configured.
func (c *StorageConfig) BuildScriptStore() (storage.Storer[*commands.ScriptSpec], error) {
	if c.Commands.Path == "" {
		return nil, nil
	}
	st, err := c.Commands.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating command store: %w", err)
	}
	return st, nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
