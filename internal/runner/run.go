package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"percept/internal/config"
	"percept/internal/engine"
	"percept/internal/objectstore"
	"percept/internal/pool"
	"percept/internal/spec"
)

// ObjectStoreFactory opens the store behind bucket-backed pools.
type ObjectStoreFactory func(cfg spec.ObjectStoreConfig) (*objectstore.Store, error)

type RunDependencies struct {
	SessionID   func() uuid.UUID
	Now         func() time.Time
	Clock       engine.Clock
	ObjectStore ObjectStoreFactory
}

type RunParams struct {
	StudyRoot     string
	OutputDir     string
	ParticipantID string
	Participant   Participant
	// Observer also receives trial events when it implements engine.Observer.
	Observer RunObserver
	// Fixation overrides the study's fixation interval when set.
	Fixation  *time.Duration
	Simulated bool
	Logger    *zap.Logger
	Deps      RunDependencies
}

// Run executes one participant session and assembles its export.
func Run(ctx context.Context, cfg spec.Config, params RunParams) (Results, error) {
	if err := ValidateParticipantID(params.ParticipantID); err != nil {
		return Results{}, err
	}
	if params.Participant == nil {
		return Results{}, fmt.Errorf("participant is required")
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := params.Deps.Now
	if now == nil {
		now = time.Now
	}
	newSessionID := params.Deps.SessionID
	if newSessionID == nil {
		newSessionID = uuid.New
	}

	sessionID := newSessionID()
	startedAt := now()
	runID := NewRunID(startedAt, sessionID)
	logger = logger.With(zap.String("run_id", runID), zap.String("participant", params.ParticipantID))

	objects, err := openObjectStore(cfg, params.Deps.ObjectStore)
	if err != nil {
		return Results{}, err
	}
	var (
		lister pool.Lister
		getter pool.Getter
	)
	if objects != nil {
		if err := objects.Check(ctx, poolBuckets(cfg)...); err != nil {
			return Results{}, fmt.Errorf("object store: %w", err)
		}
		lister, getter = objects, objects
	}
	pools, err := pool.BuildPools(ctx, cfg, params.StudyRoot, lister, logger)
	if err != nil {
		return Results{}, err
	}
	loader, err := pool.NewLoader(pool.LoaderOptions{Objects: getter, CacheSize: cfg.Engine.CacheSize, Logger: logger})
	if err != nil {
		return Results{}, err
	}

	if viewer, ok := params.Participant.(ArtViewer); ok {
		viewer.UseArt(loaderArt(loader))
	}

	warnings := newWarningLog()
	opts := config.EngineOptions(cfg)
	if params.Fixation != nil {
		opts.Fixation = *params.Fixation
	}
	opts.Loader = loader
	opts.Clock = params.Deps.Clock
	opts.Logger = logger
	observers := engine.Observers{warnings, params.Participant}
	if watcher, ok := params.Observer.(engine.Observer); ok && any(params.Observer) != any(params.Participant) {
		observers = append(observers, watcher)
	}
	opts.Observer = observers

	eng := engine.New(opts)
	stages := config.EngineStages(cfg)
	if err := eng.Configure(stages, pools); err != nil {
		return Results{}, err
	}
	params.Participant.Bind(ctx, eng.Submit)

	info := RunInfo{
		RunID:         runID,
		SessionID:     sessionID.String(),
		StudyID:       cfg.Study.ID,
		ParticipantID: params.ParticipantID,
		Trials:        totalTrials(stages),
		Stages:        len(stages),
	}
	if params.Observer != nil {
		params.Observer.OnRunStart(info)
	}
	logger.Info("session started", zap.String("study", cfg.Study.ID), zap.Int("trials", info.Trials))
	if err := eng.Start(ctx); err != nil {
		return Results{}, err
	}
	trials, err := eng.Wait(ctx)
	if err != nil {
		return Results{}, fmt.Errorf("session interrupted after %d trials: %w", len(eng.Results()), err)
	}

	finishedAt := now()
	threshold := cfg.Scoring.PassThreshold
	responses := BuildResponses(trials, threshold)
	results := Results{
		ParticipantID: params.ParticipantID,
		SessionID:     info.SessionID,
		RunID:         runID,
		StudyID:       cfg.Study.ID,
		Simulated:     params.Simulated,
		StartedAt:     startedAt,
		FinishedAt:    finishedAt,
		Timestamp:     finishedAt,
		Responses:     responses,
		Trials:        trials,
		Warnings:      warnings.records(),
		Summary:       summarize(trials, responses, threshold),
	}
	logger.Info("session completed",
		zap.Int("trials", results.Summary.TrialsTotal),
		zap.Int("correct", results.Summary.TrialsCorrect),
		zap.Int("warnings", len(results.Warnings)))
	if params.Observer != nil {
		params.Observer.OnRunEnd(results)
	}
	return results, nil
}

// RunAndWrite runs a session and writes its export under the output dir.
func RunAndWrite(ctx context.Context, cfg spec.Config, params RunParams) (Results, OutputPaths, error) {
	results, err := Run(ctx, cfg, params)
	if err != nil {
		return Results{}, OutputPaths{}, err
	}
	outputDir := params.OutputDir
	if strings.TrimSpace(outputDir) == "" {
		outputDir = cfg.Study.OutputDir
	}
	outputDir = config.ResolvePath(params.StudyRoot, outputDir)
	paths, err := WriteRunOutputs(results, outputDir)
	if err != nil {
		return results, OutputPaths{}, err
	}
	return results, paths, nil
}

func openObjectStore(cfg spec.Config, factory ObjectStoreFactory) (*objectstore.Store, error) {
	if len(poolBuckets(cfg)) == 0 {
		return nil, nil
	}
	if factory == nil {
		factory = func(storeCfg spec.ObjectStoreConfig) (*objectstore.Store, error) {
			resolved, err := objectstore.ConfigFromEnv(storeCfg)
			if err != nil {
				return nil, fmt.Errorf("object store: %w", err)
			}
			return objectstore.NewStore(resolved)
		}
	}
	return factory(cfg.ObjectStore)
}

// poolBuckets lists the distinct buckets pool sources read from, in pool order.
func poolBuckets(cfg spec.Config) []string {
	var buckets []string
	seen := map[string]bool{}
	for _, p := range cfg.Pools {
		for _, bucket := range []string{p.Targets.Bucket, p.Distractors.Bucket} {
			if bucket != "" && !seen[bucket] {
				seen[bucket] = true
				buckets = append(buckets, bucket)
			}
		}
	}
	return buckets
}

func totalTrials(stages []engine.StageConfig) int {
	total := 0
	for _, stage := range stages {
		total += stage.TrialCount
	}
	return total
}

// loaderArt exposes the block-art thumbnails held by the loader cache.
func loaderArt(loader *pool.Loader) func(engine.ImageRef) []string {
	return func(ref engine.ImageRef) []string {
		picture, ok := loader.Picture(ref)
		if !ok {
			return nil
		}
		return picture.Art
	}
}
