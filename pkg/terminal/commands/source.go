package commands

import (
	"context"

	"github.com/de-tools/salespulse/pkg/services/source"
)

// SourceOpener opens the dataset profile selected on the command line.
type SourceOpener func(ctx context.Context) (*source.Source, error)
