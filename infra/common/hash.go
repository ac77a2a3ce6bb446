package common

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// skipDirs never affect the api image.
var skipDirs = map[string]bool{
	".git":      true,
	"infra":     true,
	"_examples": true,
}

// SourceHash digests every regular file under root in walk order. It tags
// the api image so that unchanged sources reuse the pushed image.
func SourceHash(root string) (string, error) {
	h := sha256.New()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		io.WriteString(h, rel)

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(h, f)
		return err
	})
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil))[:16], nil
}
