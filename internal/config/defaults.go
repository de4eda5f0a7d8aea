package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/verso/data/db/verses.db"
	}
	if cfg.Corpus.Translations == nil {
		cfg.Corpus.Translations = map[string]string{
			"kjv": "/usr/local/share/verso/kjv.dat",
			"asv": "/usr/local/share/verso/asv.dat",
		}
	}
	if cfg.Corpus.DefaultTranslation == "" {
		cfg.Corpus.DefaultTranslation = "kjv"
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.TopKCandidates == 0 {
		cfg.Search.TopKCandidates = 100
	}
	if cfg.Search.CacheSize == 0 {
		cfg.Search.CacheSize = 256
	}
	if cfg.Search.Mode == "" {
		cfg.Search.Mode = "keyword"
	}
	if cfg.Watch.DebounceMS == 0 {
		cfg.Watch.DebounceMS = 400
	}
	if cfg.Reference.Provider == "" {
		cfg.Reference.Provider = "biblia"
	}
}
