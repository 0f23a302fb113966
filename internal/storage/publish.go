package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Publish moves a finished artifact out of the workspace to dst. It falls back
// to copy+remove when src and dst live on different filesystems.
func Publish(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".part")
	if err := copyFile(src, tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish %s: %w", dst, err)
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Sync(); err != nil {
		return err
	}
	return out.Close()
}

// CheckDestination creates dir when missing and rejects it when it is not writable.
func CheckDestination(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if abs == string(filepath.Separator) {
		return fmt.Errorf("destination folder %s is not writable", abs)
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return os.MkdirAll(abs, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("destination %s is not a folder", abs)
	}
	probe, err := os.CreateTemp(abs, ".asciireel-probe-*")
	if err != nil {
		return fmt.Errorf("destination folder %s is not writable: %w", abs, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
