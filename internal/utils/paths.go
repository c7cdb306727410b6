package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ExpandHome rozwija ~ na początku ścieżki do katalogu domowego
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !(runtime.GOOS == "windows" && strings.HasPrefix(path, "~\\")) {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[1:])
}

// ToLocalPath zamienia separatory z konfiguracji SSH (zawsze /) na lokalne
func ToLocalPath(path string) string {
	if runtime.GOOS == "windows" {
		return strings.ReplaceAll(path, "/", "\\")
	}
	return path
}

// LocalPath łączy obie operacje dla ścieżek z ~/.ssh/config
func LocalPath(path string) string {
	if path == "" {
		return ""
	}
	return ToLocalPath(ExpandHome(path))
}
