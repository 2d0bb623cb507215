package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	slogcontext "github.com/veqryn/slog-context"

	"github.com/originphp/plugin-installer/internal/composer"
)

// Transfer places and removes package files.
type Transfer interface {
	// Place begins copying pkg to dest.
	Place(ctx context.Context, pkg *composer.Package, dest string) (Operation, error)
	// Remove begins deleting the files at dest.
	Remove(ctx context.Context, pkg *composer.Package, dest string) (Operation, error)
}

// excludedNames are files and directories never copied into place.
var excludedNames = map[string]bool{
	".git":      true,
	".DS_Store": true,
}

// LocalTransfer copies packages from their source directory (Package.Dir).
// Unless Sync is set, the copy runs on a separate goroutine and completion
// is reported through the returned Operation. The copy stops between files
// once ctx is done.
//
// When Root is set, destinations must lie strictly inside it. Destinations
// that contain the package source are always refused.
type LocalTransfer struct {
	Sync   bool
	Root   string
	Logger *slog.Logger
}

// Place copies pkg.Dir to dest, replacing any previous installation.
func (t *LocalTransfer) Place(ctx context.Context, pkg *composer.Package, dest string) (Operation, error) {
	if pkg.Dir == "" {
		return nil, fmt.Errorf("package %s has no source directory", pkg.Name)
	}
	src, err := filepath.Abs(pkg.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving source of %s: %w", pkg.Name, err)
	}
	if src == filepath.Clean(dest) {
		t.logger(ctx).DebugContext(ctx, "package already in place", "package", pkg.Name, "path", dest)
		return Completed(nil), nil
	}
	if rel, err := filepath.Rel(src, dest); err == nil && filepath.IsLocal(rel) {
		return nil, fmt.Errorf("cannot install %s into its own source directory %s", pkg.Name, src)
	}
	if err := t.checkDest(pkg, src, dest); err != nil {
		return nil, err
	}

	return t.run(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.logger(ctx).DebugContext(ctx, "copying package", "package", pkg.Name, "from", src, "to", dest)
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("removing existing installation at %s: %w", dest, err)
		}
		if err := copyDir(ctx, src, dest); err != nil {
			return fmt.Errorf("copying %s to %s: %w", src, dest, err)
		}
		return nil
	}), nil
}

// Remove deletes dest. A missing directory is already removed.
func (t *LocalTransfer) Remove(ctx context.Context, pkg *composer.Package, dest string) (Operation, error) {
	var src string
	if pkg.Dir != "" {
		abs, err := filepath.Abs(pkg.Dir)
		if err != nil {
			return nil, fmt.Errorf("resolving source of %s: %w", pkg.Name, err)
		}
		src = abs
	}
	if err := t.checkDest(pkg, src, dest); err != nil {
		return nil, err
	}

	info, err := os.Stat(dest)
	if errors.Is(err, fs.ErrNotExist) {
		t.logger(ctx).DebugContext(ctx, "package files already gone", "package", pkg.Name, "path", dest)
		return Completed(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", dest, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dest)
	}

	return t.run(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.logger(ctx).DebugContext(ctx, "removing package", "package", pkg.Name, "path", dest)
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("removing %s: %w", dest, err)
		}
		return nil
	}), nil
}

// checkDest refuses destinations whose deletion would take the project root,
// anything outside it, or the package source with it. dest equal to src is
// allowed: it is the installed copy itself.
func (t *LocalTransfer) checkDest(pkg *composer.Package, src, dest string) error {
	dest, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolving destination of %s: %w", pkg.Name, err)
	}

	if t.Root != "" {
		root, err := filepath.Abs(t.Root)
		if err != nil {
			return fmt.Errorf("resolving project root: %w", err)
		}
		rel, err := filepath.Rel(root, dest)
		if err != nil || rel == "." || !filepath.IsLocal(rel) {
			return fmt.Errorf("unsafe destination %s for %s: must be inside the project root %s", dest, pkg.Name, root)
		}
	}

	if src != "" {
		if rel, err := filepath.Rel(dest, src); err == nil && rel != "." && filepath.IsLocal(rel) {
			return fmt.Errorf("unsafe destination %s for %s: it contains the package source %s", dest, pkg.Name, src)
		}
	}
	return nil
}

func (t *LocalTransfer) run(fn func() error) Operation {
	if t.Sync {
		return Completed(fn())
	}
	return Go(fn)
}

// logger falls back to the logger carried by ctx, then slog.Default.
func (t *LocalTransfer) logger(ctx context.Context) *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slogcontext.FromCtx(ctx)
}

// copyDir recursively copies src to dst, skipping excludedNames. It returns
// ctx.Err() as soon as ctx is done.
func copyDir(ctx context.Context, src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if excludedNames[entry.Name()] {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(ctx, srcPath, dstPath); err != nil {
				return err
			}
		} else if entry.Type().IsRegular() {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
		// Symlinks and special files are skipped.
	}

	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, srcInfo.Mode().Perm())
}
