package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/anchora/internal/cache"
	"github.com/ppiankov/anchora/internal/locate"
	"github.com/ppiankov/anchora/internal/model"
	"github.com/ppiankov/anchora/internal/pipeline"
	"github.com/ppiankov/anchora/internal/sections"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// env bundles what every subcommand needs
type env struct {
	cfg    *model.Config
	logger *zap.Logger
}

func setup() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger}, nil
}

// locator returns the matcher behind the configured cache
func (e *env) locator() locate.Locator {
	return locate.NewCached(locate.NewMatcher(e.logger), cache.New(e.cfg.Cache), e.cfg.Cache.MemoryTTL, e.logger)
}

func (e *env) sectionParser() sections.Parser {
	return sections.NewTagParser()
}

func (e *env) load(ctx context.Context, source string) (*pipeline.Document, error) {
	doc, err := pipeline.NewLoader(e.cfg.HTTP).Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}

// decodeFile reads JSON or YAML (by extension) into v
func decodeFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	return pipeline.WriteJSON(w, v)
}
