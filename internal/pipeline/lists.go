package pipeline

import (
	"context"
	"log/slog"

	"datastats/internal/tagging"
	"datastats/pkg/contracts/domain"
)

// LoadTagger reads the three curated lists from storage and builds the
// technology tagger from them.
func LoadTagger(ctx context.Context, lists ListsStore, logger *slog.Logger) (*tagging.Tagger, error) {
	technoRaw, err := lists.Get(ctx, domain.ListTechnoList)
	if err != nil {
		return nil, err
	}
	fullNames, err := tagging.DecodeNameList(technoRaw)
	if err != nil {
		return nil, err
	}

	miniRaw, err := lists.Get(ctx, domain.ListMiniList)
	if err != nil {
		return nil, err
	}
	shortNames, err := tagging.DecodeNameList(miniRaw)
	if err != nil {
		return nil, err
	}

	cleanRaw, err := lists.Get(ctx, domain.ListCleanList)
	if err != nil {
		return nil, err
	}
	cleanList, err := tagging.DecodeAliasMap(cleanRaw)
	if err != nil {
		return nil, err
	}

	return tagging.NewTagger(fullNames, shortNames, cleanList, logger), nil
}
