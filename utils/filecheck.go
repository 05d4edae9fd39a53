package utils

import (
	"fmt"
	"strings"
)

// MaxUploadSize is the per-file cap applied to every document intake,
// regardless of category.
const MaxUploadSize = 10 << 20 // 10 MiB

// acceptedMimeTypes are the only content types allowed at intake. jpg is an
// alias the browsers still send for jpeg.
var acceptedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/jpg":       true,
}

// FileMeta describes one candidate upload before any bytes are stored.
type FileMeta struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// FileRejection names one file excluded from an upload batch and why.
type FileRejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// CheckUpload validates a single candidate file. The returned error message
// names the file so multi-file feedback stays actionable.
func CheckUpload(f FileMeta) error {
	if !acceptedMimeTypes[strings.ToLower(f.Type)] {
		return fmt.Errorf("%s: invalid type %q (accepted: pdf, png, jpeg)", f.Name, f.Type)
	}
	if f.Size > MaxUploadSize {
		return fmt.Errorf("%s: too large (%d bytes, max %d)", f.Name, f.Size, MaxUploadSize)
	}
	return nil
}

// FilterUploads validates each file independently and splits the batch into
// accepted files and named rejections. One bad file never drops the rest of
// the selection.
func FilterUploads(files []FileMeta) (accepted []FileMeta, rejected []FileRejection) {
	for _, f := range files {
		if err := CheckUpload(f); err != nil {
			rejected = append(rejected, FileRejection{Name: f.Name, Reason: err.Error()})
			continue
		}
		accepted = append(accepted, f)
	}
	return accepted, rejected
}
