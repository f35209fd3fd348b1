package imaging

import "fmt"

// PathError indicates the input path does not exist.
type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("could not find file or directory '%s'", e.Path)
}

// LimitError indicates a directory holds more photos than one order allows.
// Count carries the exact number found so callers can report it.
type LimitError struct {
	Count int
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("found %d photos in folder, maximum limit is %d photos per order", e.Count, e.Limit)
}

// NoImagesError indicates a directory contains no printable images.
type NoImagesError struct {
	Dir string
}

func (e *NoImagesError) Error() string {
	return fmt.Sprintf("no JPG or PNG images found in '%s'", e.Dir)
}
