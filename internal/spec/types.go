package spec

type Config struct {
	Version     int               `yaml:"version"`
	Study       StudyConfig       `yaml:"study"`
	Engine      EngineConfig      `yaml:"engine"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	ObjectStore ObjectStoreConfig `yaml:"object_store"`
	Pools       []PoolConfig      `yaml:"pools"`
	Stages      []StageConfig     `yaml:"stages"`
}

type StudyConfig struct {
	ID        string `yaml:"id"`
	OutputDir string `yaml:"output_dir"`
}

// EngineConfig tunes trial timing and preloading. Zero values take defaults.
type EngineConfig struct {
	FixationMS         int    `yaml:"fixation_ms"`
	FixationAnchor     string `yaml:"fixation_anchor"`
	LoadTimeoutMS      int    `yaml:"load_timeout_ms"`
	PreloadConcurrency int    `yaml:"preload_concurrency"`
	Seed               uint64 `yaml:"seed"`
	CacheSize          int    `yaml:"cache_size"`
}

type ScoringConfig struct {
	PassThreshold float64 `yaml:"pass_threshold"`
}

// ObjectStoreConfig locates the S3-compatible store behind bucket sources.
// Credentials come from the environment, never from the study file.
type ObjectStoreConfig struct {
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	UseSSL   bool   `yaml:"use_ssl"`
}

type PoolConfig struct {
	Label       string       `yaml:"label"`
	Targets     SourceConfig `yaml:"targets"`
	Distractors SourceConfig `yaml:"distractors"`
}

// SourceConfig names either a local directory or a bucket prefix.
type SourceConfig struct {
	Dir    string `yaml:"dir"`
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

type StageConfig struct {
	GridSize int           `yaml:"grid_size"`
	Trials   int           `yaml:"trials"`
	Balance  string        `yaml:"balance"`
	Groups   []GroupConfig `yaml:"groups"`
}

type GroupConfig struct {
	Label string `yaml:"label"`
	Quota int    `yaml:"quota"`
}
