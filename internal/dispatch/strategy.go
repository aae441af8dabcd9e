package dispatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tilepress/internal/fileutil"
	"tilepress/internal/services"
	"tilepress/internal/services/vips"
	"tilepress/internal/staging"
)

// Strategy executes the convert-and-place sequence for one item. The
// destination must hold the complete result on success and must not exist
// on failure.
type Strategy interface {
	Name() string
	Convert(ctx context.Context, sourcePath, finalPath string) error
}

// Direct converts straight into the destination tree: the converter writes
// a uniquely named temp file beside the final path and a rename finalizes
// it. Suited to local or fast storage.
type Direct struct {
	converter vips.Client
}

// NewDirect constructs the direct strategy.
func NewDirect(converter vips.Client) *Direct {
	return &Direct{converter: converter}
}

func (d *Direct) Name() string { return "direct" }

func (d *Direct) Convert(ctx context.Context, sourcePath, finalPath string) error {
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "converting", "ensure output directory", "Cannot create destination directory", err)
	}

	tempPath := fileutil.TempPathNear(finalPath)
	if err := d.converter.Convert(ctx, sourcePath, tempPath); err != nil {
		_ = os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		_ = os.Remove(tempPath)
		return services.Wrap(services.ErrTransient, "converting", "finalize output", "Failed to move converted file into place", err)
	}
	return nil
}

// Staged copies the source to the local scratch tier, converts there, and
// places the result at the real destination through the atomic writer. The
// staged copy and the local conversion trade one extra local write for all
// of the converter's random reads hitting local disk instead of the network
// filesystem; the final placement is the one unavoidable remote write.
type Staged struct {
	converter vips.Client
	area      *staging.Area
	outputExt string
}

// NewStaged constructs the staged strategy.
func NewStaged(converter vips.Client, area *staging.Area, outputExt string) *Staged {
	return &Staged{converter: converter, area: area, outputExt: outputExt}
}

func (s *Staged) Name() string { return "staged" }

func (s *Staged) Convert(ctx context.Context, sourcePath, finalPath string) error {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return services.Wrap(services.ErrTransient, "staging", "stat source", "Cannot read source file", err)
	}

	stem := filepath.Base(sourcePath)
	slot, err := s.area.NewSlot(stem, info.Size())
	if err != nil {
		return services.Wrap(services.ErrTransient, "staging", "allocate slot", "Cannot allocate staging slot", err)
	}
	// The slot is owned by this worker alone; release it on every exit path.
	defer func() {
		_ = slot.Release()
	}()

	stagedInput := slot.InputPath(sourcePath)
	if err := fileutil.CopyFileVerified(sourcePath, stagedInput); err != nil {
		return services.Wrap(services.ErrTransient, "staging", "copy source", "Staging copy failed", err)
	}

	stagedOutput := slot.OutputPath(s.outputExt)
	if err := s.converter.Convert(ctx, stagedInput, stagedOutput); err != nil {
		return err
	}

	if err := fileutil.PlaceAtomic(stagedOutput, finalPath); err != nil {
		return services.Wrap(services.ErrTransient, "staging", "place output",
			fmt.Sprintf("Failed to place %s", filepath.Base(finalPath)), err)
	}
	return nil
}

var (
	_ Strategy = (*Direct)(nil)
	_ Strategy = (*Staged)(nil)
)
