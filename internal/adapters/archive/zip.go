// Package archive validates build directories and packages them into zip
// artifacts for upload. It implements domain.Packager.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shiplift-dev/shiplift/internal/domain"
)

// ContentExtension is the output extension a build directory must contain
// to be considered deployable.
const ContentExtension = ".html"

// Packager packages static-site build directories.
type Packager struct{}

// NewPackager creates a Packager.
func NewPackager() *Packager {
	return &Packager{}
}

// Validate checks that dir is a directory whose immediate entries include at
// least one file with the expected content extension.
func (p *Packager) Validate(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidDirectory, dir)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ContentExtension) {
			return nil
		}
	}
	return fmt.Errorf("%w: no %s files in %s", domain.ErrEmptyArtifact, ContentExtension, dir)
}

// Pack writes every regular file under dir into a zip archive at dest, entry
// names relative to dir with subdirectory structure preserved. The archive
// is written to a temporary file and renamed into place, so a failure
// mid-walk leaves nothing at dest.
func (p *Packager) Pack(dir, dest string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("failed to create artifact file: %w", err)
	}
	tmpName := tmp.Name()

	if err := writeArchive(tmp, dir); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize artifact: %w", err)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to place artifact at %s: %w", dest, err)
	}
	return nil
}

func writeArchive(w io.Writer, dir string) error {
	zw := zip.NewWriter(w)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		entry, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(entry, f)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("failed to package %s: %w", dir, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to package %s: %w", dir, err)
	}
	return nil
}
