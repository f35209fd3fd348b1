package imaging

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"regexp"

	_ "image/jpeg"
	_ "image/png"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// validateWorkers bounds the number of images checked concurrently.
const validateWorkers = 4

// filenamePattern is what the print service accepts as an asset name:
// letters, digits, dashes, and underscores, followed by one extension.
var filenamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+\.[a-zA-Z0-9]+$`)

// Limits caps the file size and pixel dimensions of submitted images.
// Zero values disable the corresponding check.
type Limits struct {
	MaxBytes  int64
	MaxWidth  int
	MaxHeight int
}

// Validate checks every candidate and splits the batch into accepted and
// rejected sets. Checks run per candidate in a fixed order - existence,
// extension, filename, image header, configured limits - and the first
// failure wins. A failed candidate is recorded and never aborts the rest
// of the batch.
//
// Candidates are checked concurrently but the report preserves the input
// order. The only error Validate returns is ctx's, when the run is
// cancelled mid-batch.
func Validate(ctx context.Context, candidates []Candidate, limits Limits) (Report, error) {
	log.Info().Int("count", len(candidates)).Msg("Validating images")

	results := make([]Candidate, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(validateWorkers)
	for i, c := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = validateOne(c, limits)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	var report Report
	for _, c := range results {
		if c.Valid {
			report.Accepted = append(report.Accepted, c)
		} else {
			report.Rejected = append(report.Rejected, c)
		}
	}

	log.Info().
		Int("accepted", len(report.Accepted)).
		Int("rejected", len(report.Rejected)).
		Msg("Image validation complete")

	return report, nil
}

// validateOne runs the check sequence for a single candidate.
func validateOne(c Candidate, limits Limits) Candidate {
	log.Debug().Str("path", c.Path).Msg("Validating image")

	info, err := os.Stat(c.Path)
	if err != nil {
		return c.reject(ReasonFileNotFound,
			fmt.Sprintf("Could not find file '%s'", c.Path))
	}
	c.Size = info.Size()

	if !IsSupported(c.Ext) {
		return c.reject(ReasonUnsupportedFormat,
			fmt.Sprintf("Image format '%s' is not supported. Please use JPG or PNG", c.Ext))
	}

	name := filepath.Base(c.Path)
	if !filenamePattern.MatchString(name) {
		return c.reject(ReasonInvalidFilename,
			fmt.Sprintf("File '%s' contains special characters. Please rename the file using only letters, numbers, dashes, and underscores", name))
	}

	f, err := os.Open(c.Path)
	if err != nil {
		return c.reject(ReasonCorruptImage,
			fmt.Sprintf("Image file '%s' appears to be corrupted", c.Path))
	}
	defer f.Close()

	// Decoding just the header is enough to prove the file is a readable
	// image without loading pixel data.
	imgConfig, _, err := image.DecodeConfig(f)
	if err != nil {
		return c.reject(ReasonCorruptImage,
			fmt.Sprintf("Image file '%s' appears to be corrupted", c.Path))
	}

	if limits.MaxBytes > 0 && c.Size > limits.MaxBytes {
		return c.reject(ReasonTooLarge,
			fmt.Sprintf("Image '%s' is %.1f MB, exceeding the maximum size of %.1f MB",
				name, float64(c.Size)/(1<<20), float64(limits.MaxBytes)/(1<<20)))
	}
	if (limits.MaxWidth > 0 && imgConfig.Width > limits.MaxWidth) ||
		(limits.MaxHeight > 0 && imgConfig.Height > limits.MaxHeight) {
		return c.reject(ReasonTooLarge,
			fmt.Sprintf("Image '%s' is %dx%d, exceeding the maximum resolution of %dx%d",
				name, imgConfig.Width, imgConfig.Height, limits.MaxWidth, limits.MaxHeight))
	}

	// EXIF capture date, best effort. Missing metadata is normal for
	// screenshots and edited exports.
	if _, err := f.Seek(0, io.SeekStart); err == nil {
		if meta, err := imagemeta.Decode(f); err == nil {
			if ts := meta.DateTimeOriginal(); !ts.IsZero() {
				c.TakenAt = ts
				log.Debug().Str("path", c.Path).Time("takenAt", ts).Msg("Capture date found")
			}
		} else {
			log.Debug().Err(err).Str("path", c.Path).Msg("No EXIF metadata available")
		}
	}

	c.Valid = true
	return c
}

// reject marks the candidate invalid with the first failed check.
func (c Candidate) reject(reason RejectReason, detail string) Candidate {
	c.Valid = false
	c.Reason = reason
	c.Detail = detail
	log.Debug().
		Str("path", c.Path).
		Str("reason", reason.String()).
		Msg("Image rejected")
	return c
}
