package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fastestraces/fastestraces/internal/domain"
	"github.com/fastestraces/fastestraces/internal/infra/config"
	"github.com/fastestraces/fastestraces/internal/infra/runstore"
	"github.com/fastestraces/fastestraces/internal/ports"
)

// workspaceCtx is the directory fastestraces works in: the one holding
// fastestraces.yaml, or the working directory when there is none.
type workspaceCtx struct {
	root       string
	configPath string // empty when running on defaults
	cfg        domain.Config

	store ports.ArtifactStore
}

func loadWorkspace(configFlag string) (*workspaceCtx, error) {
	root, cfgPath, err := resolveWorkspaceRoot(configFlag)
	if err != nil {
		return nil, err
	}

	cfg := domain.DefaultConfig()
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
	}

	return &workspaceCtx{
		root:       root,
		configPath: cfgPath,
		cfg:        cfg,
		store:      runstore.NewJSONStore(root, cfg, runstore.WithIndex(true)),
	}, nil
}

// resolveWorkspaceRoot honours --config, then searches upward from the working
// directory. Not finding a config file is fine: the working directory is used.
func resolveWorkspaceRoot(configFlag string) (root string, cfgPath string, err error) {
	if c := strings.TrimSpace(configFlag); c != "" {
		abs, err := filepath.Abs(c)
		if err != nil {
			return "", "", fmt.Errorf("invalid config path: %w", err)
		}
		if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
			abs = filepath.Join(abs, config.FileName)
		}
		if _, statErr := os.Stat(abs); statErr != nil {
			return "", "", &domain.OpError{Op: "config.load", Kind: domain.KindNotFound, Path: abs, Err: domain.ErrNotFound}
		}
		return filepath.Dir(abs), abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("get working directory: %w", err)
	}

	var locator ports.ConfigLocator = config.NewFinder()
	found, err := locator.FindRoot(wd)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) || errors.Is(err, domain.ErrNotFound) {
			return wd, "", nil
		}
		return "", "", err
	}
	return found, filepath.Join(found, config.FileName), nil
}
