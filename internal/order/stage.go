package order

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fpang/photoprint/internal/cleanup"
	"github.com/fpang/photoprint/internal/imaging"
	"github.com/fpang/photoprint/internal/printapi"
)

// Stage copies accepted images into a private working directory and
// assigns each one its upload name. The copies keep an in-flight upload
// immune to the originals being renamed or removed, and the generated
// names keep customer filenames off the wire. The directory is registered
// with the cleanup manager before any copy happens.
func Stage(candidates []imaging.Candidate, affiliateID string, cleaner *cleanup.Manager) ([]printapi.Asset, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyOrder
	}

	dir, err := os.MkdirTemp("", "photoprint-")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	cleaner.AddDir(dir)
	log.Debug().Str("dir", dir).Msg("Created staging directory")

	assets := make([]printapi.Asset, 0, len(candidates))
	for _, c := range candidates {
		name := assetName(affiliateID, c.Ext)
		dst := filepath.Join(dir, name)
		if err := copyFile(c.Path, dst); err != nil {
			return nil, fmt.Errorf("stage %s: %w", c.Path, err)
		}
		assets = append(assets, printapi.Asset{
			LocalPath:   dst,
			DisplayPath: c.Path,
			Name:        name,
			ContentType: contentTypeFor(c.Ext),
		})
	}

	log.Info().Int("count", len(assets)).Msg("Staged images for upload")
	return assets, nil
}

// assetName builds the container object name for one image.
func assetName(affiliateID, ext string) string {
	return fmt.Sprintf("Image-%s-%s%s", affiliateID, uuid.NewString(), ext)
}

func contentTypeFor(ext string) string {
	if ext == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
