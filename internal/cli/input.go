package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"workforce/internal/codec"
	"workforce/internal/domain"
)

// maxConcurrentReads bounds how many position files are parsed at once
const maxConcurrentReads = 8

// readPositionFiles parses every file concurrently. Results keep the order of
// paths; the first failure cancels the rest.
func readPositionFiles(ctx context.Context, paths []string) ([]*domain.PositionSet, error) {
	sets := make([]*domain.PositionSet, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			set, err := readPositionFile(path)
			if err != nil {
				return err
			}
			sets[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}

// readPositionFile parses one file. A set without a source is named after
// the file.
func readPositionFile(path string) (*domain.PositionSet, error) {
	importer, err := codec.ImporterFor(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	set, err := importer.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.TrimSpace(set.Source) == "" {
		set.Source = sourceName(path)
	}
	return set, nil
}

func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// bySource keys position sets by source name. Two files may not claim the
// same source.
func bySource(sets []*domain.PositionSet) (map[string][]domain.Position, error) {
	sources := make(map[string][]domain.Position, len(sets))
	for _, set := range sets {
		if _, dup := sources[set.Source]; dup {
			return nil, fmt.Errorf("source %q is given more than once", set.Source)
		}
		sources[set.Source] = set.WithSource()
	}
	return sources, nil
}

// flatten concatenates the positions of every set, stamped with their source
func flatten(sets []*domain.PositionSet) []domain.Position {
	var out []domain.Position
	for _, set := range sets {
		out = append(out, set.WithSource()...)
	}
	return out
}

// readPages reads the direct page, indirect page and detailed view
func readPages(ctx context.Context, direct, indirect, detailed string) (d, i, v []domain.Position, err error) {
	sets, err := readPositionFiles(ctx, []string{direct, indirect, detailed})
	if err != nil {
		return nil, nil, nil, err
	}
	return sets[0].WithSource(), sets[1].WithSource(), sets[2].WithSource(), nil
}
