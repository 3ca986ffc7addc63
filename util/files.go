package util

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// MD5File is the hex digest of a file's contents, logged with each model
// so that runs can be matched to the exact files they used.
func MD5File(fileName string) (string, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return "", errors.Wrap(err, "opening file for checksum")
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", errors.Wrapf(err, "reading %s", fileName)
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// Checksum is MD5File for logging: an unreadable or unnamed file yields "-".
func Checksum(fileName string) string {
	if fileName == "" {
		return "-"
	}
	sum, err := MD5File(fileName)
	if err != nil {
		return "-"
	}
	return sum
}
