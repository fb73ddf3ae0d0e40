package utils

import (
	"io/fs"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
)

// DirSize sums the sizes of all regular files under dirPath.
func DirSize(dirPath string) (int64, error) {
	var size int64
	err := filepath.Walk(dirPath, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}

// AvailableDiskSize reports free bytes on the volume holding dirPath.
func AvailableDiskSize(dirPath string) (uint64, error) {
	usage, err := disk.Usage(dirPath)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}
