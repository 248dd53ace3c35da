package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StringListContains returns true if the list of strings contains item.
func StringListContains(list []string, item string) bool {
	if list != nil {
		for i := range list {
			if list[i] == item {
				return true
			}
		}
	}
	return false
}

// ExpandTilde expands the tilde in a file path to the current user's
// home directory. For example, on Linux, ~/data becomes /home/josie/data.
func ExpandTilde(filePath string) (string, error) {
	if !strings.HasPrefix(filePath, "~") {
		return filePath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	separatorIndex := strings.Index(filePath, string(os.PathSeparator))
	if separatorIndex < 0 {
		return homeDir, nil
	}
	return filepath.Join(homeDir, filePath[separatorIndex+1:]), nil
}

// LooksLikeURL returns true if value starts with an http or https scheme.
func LooksLikeURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// BaseNameWithoutExtension returns filename minus its directory and
// final extension. "albums/17/rose.JPG" becomes "rose".
func BaseNameWithoutExtension(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SafeFileName returns a name suitable for use as the base of derived
// file names: the bare file name with its extension stripped, prefixed
// with the file's position in the upload batch so that two files with
// the same name in one batch cannot collide.
func SafeFileName(index int, filename string) string {
	return fmt.Sprintf("%d-%s", index, BaseNameWithoutExtension(filename))
}

// IsDirEmpty returns true if the directory at dir contains no entries.
func IsDirEmpty(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}
