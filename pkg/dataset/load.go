package dataset

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/emberview/pkg/errors"
)

// Sources names the input files of a run.
type Sources struct {
	Records    string  // parcel CSV
	Boundaries string  // GeoJSON or TopoJSON; optional for LoadRecords
	Object     string  // TopoJSON object name
	Columns    Columns // zero value means DefaultColumns
}

// LoadRecords reads and parses the parcel CSV at path.
func LoadRecords(ctx context.Context, path string, cols Columns) (*Dataset, error) {
	raw, err := readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	ds, err := parseCSV(raw, cols)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return ds, nil
}

// LoadBoundaries reads and decodes the boundary file at path.
func LoadBoundaries(ctx context.Context, path, object string) (*Boundaries, error) {
	raw, err := readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	b, err := parseBoundaries(raw, object)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return b, nil
}

// Bundle is the outcome of LoadAll. Records is always set when LoadAll
// returns a nil error; Boundaries is nil when BoundariesErr is set.
type Bundle struct {
	Records       *Dataset
	Boundaries    *Boundaries
	BoundariesErr error
}

// LoadAll loads the records and the boundaries concurrently and waits for
// both. A records failure cancels the boundary load and is returned. A
// boundary failure only affects the charts that draw the map, so it is kept
// in Bundle.BoundariesErr and the records are still returned.
func LoadAll(ctx context.Context, src Sources) (*Bundle, error) {
	var b Bundle
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		b.Records, err = LoadRecords(gctx, src.Records, src.Columns)
		return err
	})
	g.Go(func() error {
		b.Boundaries, b.BoundariesErr = LoadBoundaries(gctx, src.Boundaries, src.Object)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &b, nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input path given")
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "read %s", path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return raw, nil
}
