package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

func Abs(p string) string {
	p, err := filepath.Abs(p)
	if err != nil {
		panic(err)
	}

	return p
}

func CreateDirectoryIfNotExists(path string) error {
	return os.MkdirAll(path, 0777)
}

func IsDirectory(path string) bool {
	fs, err := os.Stat(path)
	if err != nil {
		return false
	}

	return fs.IsDir()
}

// OutputPath derives the output file for input: the input's base name with
// its extension replaced by ext, placed in outDir or, if outDir is empty,
// next to the input.
func OutputPath(input, outDir, ext string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ext

	if outDir == "" {
		outDir = filepath.Dir(input)
	}

	return filepath.Join(outDir, base)
}
