package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"percept/internal/config"
	"percept/internal/engine"
	"percept/internal/objectstore"
	"percept/internal/spec"
	"percept/internal/testutil"
)

var sessionEpoch = time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC)

func writeStudyImages(t *testing.T, dir string, count int) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	for i := 0; i < count; i++ {
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("%02d.png", i)), buf.Bytes(), 0o644); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
}

func studyConfig(t *testing.T, root string) spec.Config {
	t.Helper()
	writeStudyImages(t, filepath.Join(root, "Right"), 2)
	writeStudyImages(t, filepath.Join(root, "Wrong"), 9)
	cfg := spec.Config{
		Version: 1,
		Study:   spec.StudyConfig{ID: "happy-face", OutputDir: "out"},
		Pools: []spec.PoolConfig{{
			Label:       "neutral",
			Targets:     spec.SourceConfig{Dir: "Right"},
			Distractors: spec.SourceConfig{Dir: "Wrong"},
		}},
		Stages: []spec.StageConfig{{GridSize: 2, Trials: 3}, {GridSize: 3, Trials: 2}},
	}
	config.Normalize(&cfg)
	if err := config.Validate(&cfg, root); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return cfg
}

type recordingObserver struct {
	started []RunInfo
	ended   []Results
}

func (o *recordingObserver) OnRunStart(info RunInfo) { o.started = append(o.started, info) }
func (o *recordingObserver) OnRunEnd(results Results) { o.ended = append(o.ended, results) }

// idleParticipant never answers.
type idleParticipant struct{ engine.Hooks }

func (idleParticipant) Bind(context.Context, SubmitFunc) {}

func instantParams(root string, participant Participant) RunParams {
	zero := time.Duration(0)
	return RunParams{
		StudyRoot:     root,
		ParticipantID: "P001",
		Participant:   participant,
		Fixation:      &zero,
		Deps: RunDependencies{
			SessionID: func() uuid.UUID { return uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff") },
			Now:       func() time.Time { return sessionEpoch },
		},
	}
}

// TestRunAndWriteSimulatedSession runs a full session with a perfect participant.
func TestRunAndWriteSimulatedSession(t *testing.T) {
	root := t.TempDir()
	cfg := studyConfig(t, root)
	observer := &recordingObserver{}
	params := instantParams(root, NewSimulatedParticipant(1, 0, rand.New(rand.NewPCG(1, 2))))
	params.Observer = observer
	params.Simulated = true

	results, paths, err := RunAndWrite(testutil.Context(t, 10*time.Second), cfg, params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results.Trials) != 5 || results.Summary.TrialsCorrect != 5 {
		t.Fatalf("unexpected summary %+v", results.Summary)
	}
	if len(results.Responses) != 2 || results.Responses[0].Task != "Face2x2" || results.Responses[1].Task != "Face3x3" {
		t.Fatalf("unexpected responses %+v", results.Responses)
	}
	if !results.Responses[0].IsCorrect || !results.Responses[1].IsCorrect {
		t.Fatalf("expected every task to pass")
	}
	if results.SessionID != "00112233-4455-6677-8899-aabbccddeeff" || results.RunID != "20250402T103000Z-001122334455" {
		t.Fatalf("unexpected ids %s %s", results.SessionID, results.RunID)
	}
	want := filepath.Join(root, "out", "happy-face", results.RunID, "study-results-P001.json")
	if paths.ResultsPath() != want {
		t.Fatalf("expected %s, got %s", want, paths.ResultsPath())
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("missing export: %v", err)
	}
	if len(observer.started) != 1 || observer.started[0].Trials != 5 || len(observer.ended) != 1 {
		t.Fatalf("unexpected observer calls %+v", observer)
	}
}

// TestRunInterruptedByContext verifies an unanswered session returns an error.
func TestRunInterruptedByContext(t *testing.T) {
	root := t.TempDir()
	cfg := studyConfig(t, root)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := Run(ctx, cfg, instantParams(root, idleParticipant{}))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if !strings.Contains(err.Error(), "after 0 trials") {
		t.Fatalf("expected trial count in error, got %q", err.Error())
	}
}

// TestRunRejectsBadParticipantID verifies ids are checked before anything runs.
func TestRunRejectsBadParticipantID(t *testing.T) {
	params := instantParams(t.TempDir(), idleParticipant{})
	params.ParticipantID = "a/b"
	if _, err := Run(context.Background(), spec.Config{}, params); err == nil {
		t.Fatalf("expected participant id error")
	}
}

// TestRunOpensObjectStoreForBuckets verifies bucket pools reach the store factory.
func TestRunOpensObjectStoreForBuckets(t *testing.T) {
	root := t.TempDir()
	cfg := studyConfig(t, root)
	cfg.ObjectStore.Endpoint = "minio:9000"
	cfg.Pools[0].Targets = spec.SourceConfig{Bucket: "faces", Prefix: "right/"}
	params := instantParams(root, idleParticipant{})
	offline := errors.New("store offline")
	var seen spec.ObjectStoreConfig
	params.Deps.ObjectStore = func(storeCfg spec.ObjectStoreConfig) (*objectstore.Store, error) {
		seen = storeCfg
		return nil, offline
	}
	if _, err := Run(context.Background(), cfg, params); !errors.Is(err, offline) {
		t.Fatalf("expected store error, got %v", err)
	}
	if seen.Endpoint != "minio:9000" {
		t.Fatalf("factory saw %+v", seen)
	}
}

// TestPoolBuckets verifies buckets are listed once, directory pools skipped.
func TestPoolBuckets(t *testing.T) {
	cfg := spec.Config{Pools: []spec.PoolConfig{
		{Label: "male", Targets: spec.SourceConfig{Bucket: "faces"}, Distractors: spec.SourceConfig{Bucket: "faces"}},
		{Label: "neutral", Targets: spec.SourceConfig{Dir: "images/Right"}, Distractors: spec.SourceConfig{Bucket: "fillers"}},
	}}
	got := poolBuckets(cfg)
	if len(got) != 2 || got[0] != "faces" || got[1] != "fillers" {
		t.Fatalf("unexpected buckets %v", got)
	}
}
