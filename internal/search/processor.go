package search

import (
	"github.com/hyperjump/verso/internal/config"
	"github.com/hyperjump/verso/internal/models"
)

// ProcessQuery fills unset fields of query from configuration, then validates it.
func ProcessQuery(query *models.SearchQuery, cfg *config.SearchConfig, corpusCfg *config.CorpusConfig) error {
	if query.Limit <= 0 {
		query.Limit = cfg.DefaultLimit
	}
	if cfg.MaxLimit > 0 && query.Limit > cfg.MaxLimit {
		query.Limit = cfg.MaxLimit
	}
	if query.Mode == "" {
		query.Mode = cfg.Mode
	}
	if query.Translation == "" {
		query.Translation = corpusCfg.DefaultTranslation
	}
	return query.Validate()
}
