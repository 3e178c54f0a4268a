package sink

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
	"wallet-credit-score/internal/storage/memory"
)

func sampleOutput() *domain.RunOutput {
	table := domain.NewFeatureTable()
	table.ActionKinds = []string{"borrow", "deposit"}
	table.Vectors["W1"] = &domain.FeatureVector{
		Wallet:            "W1",
		TotalTransactions: 2,
		TotalVolume:       300,
		UniqueAssets:      1,
		ActionCounts:      map[string]int{"deposit": 2},
		FirstSeen:         1000,
		LastSeen:          1100,
	}
	table.Vectors["W2"] = &domain.FeatureVector{
		Wallet:            "W2",
		TotalTransactions: 1,
		TotalVolume:       50,
		UniqueAssets:      1,
		ActionCounts:      map[string]int{"borrow": 1},
		FirstSeen:         1050,
		LastSeen:          1050,
	}

	return &domain.RunOutput{
		Run: domain.ScoreRun{
			RunID:            "run-1",
			GeneratedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			DataVersion:      "data",
			WeightsVersion:   "weights",
			TransactionCount: 3,
			WalletCount:      2,
		},
		Features: table,
		Scores: []domain.WalletScore{
			{Wallet: "W1", Score: 1000, Rank: 1, Band: "900-1000"},
			{Wallet: "W2", Score: 0, Rank: 2, Band: "0-100"},
		},
		Weights: []domain.FeatureWeight{{Feature: "deposit", Weight: 0.2}},
	}
}

func TestFileSink_WritesAllArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := NewFileSink(dir)

	require.NoError(t, s.Publish(context.Background(), sampleOutput()))

	for _, name := range []string{ScoresFile, FeaturesFile, ChartFile, ReportFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	scores, err := os.ReadFile(filepath.Join(dir, ScoresFile))
	require.NoError(t, err)
	assert.Equal(t, "userWallet,credit_score\nW1,1000\nW2,0\n", string(scores))

	features, err := os.ReadFile(filepath.Join(dir, FeaturesFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(features)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "W1,"))
	assert.True(t, strings.HasPrefix(lines[2], "W2,"))

	chart, err := os.ReadFile(filepath.Join(dir, ChartFile))
	require.NoError(t, err)
	assert.Contains(t, string(chart), "<svg")
}

func TestFileSink_EmptyRun(t *testing.T) {
	dir := t.TempDir()
	out := &domain.RunOutput{Run: domain.ScoreRun{RunID: "empty"}}

	require.NoError(t, NewFileSink(dir).Publish(context.Background(), out))

	scores, err := os.ReadFile(filepath.Join(dir, ScoresFile))
	require.NoError(t, err)
	assert.Equal(t, "userWallet,credit_score\n", string(scores))
}

func TestFileSink_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFileSink(t.TempDir()).Publish(ctx, sampleOutput())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreSink_PersistsRunScoresAndFeatures(t *testing.T) {
	ctx := context.Background()
	runs := memory.NewScoreRunStore()
	scores := memory.NewWalletScoreStore()
	features := memory.NewFeatureStore()

	out := sampleOutput()
	require.NoError(t, NewStoreSink(runs, scores, features).Publish(ctx, out))

	run, err := runs.GetByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, out.Run, *run)

	gotScores, err := scores.GetByRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, out.Scores, gotScores)

	gotFeatures, err := features.GetByRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, gotFeatures, 2)
	assert.Equal(t, "W1", gotFeatures[0].Wallet)
	assert.Equal(t, 2, gotFeatures[0].ActionCount("deposit"))
}

func TestStoreSink_WithoutFeatureStore(t *testing.T) {
	ctx := context.Background()
	runs := memory.NewScoreRunStore()
	scores := memory.NewWalletScoreStore()

	require.NoError(t, NewStoreSink(runs, scores, nil).Publish(ctx, sampleOutput()))

	got, err := scores.GetByRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStoreSink_WithoutRunStore(t *testing.T) {
	ctx := context.Background()
	scores := memory.NewWalletScoreStore()
	features := memory.NewFeatureStore()

	s := NewStoreSink(nil, scores, features).Named("clickhouse")
	assert.Equal(t, "clickhouse", s.Name())
	require.NoError(t, s.Publish(ctx, sampleOutput()))

	got, err := features.GetByRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStoreSink_DuplicateRun(t *testing.T) {
	ctx := context.Background()
	s := NewStoreSink(memory.NewScoreRunStore(), memory.NewWalletScoreStore(), nil)

	require.NoError(t, s.Publish(ctx, sampleOutput()))
	err := s.Publish(ctx, sampleOutput())
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey), "got %v", err)
}

func TestKafkaSink_PublishesScoresThenRun(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)

	var envelopes []Envelope
	capture := func(val []byte) error {
		var env Envelope
		if err := json.Unmarshal(val, &env); err != nil {
			return err
		}
		envelopes = append(envelopes, env)
		return nil
	}
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(capture)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(capture)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(capture)

	s := NewKafkaSinkWithProducer(producer, "wallet-scores")
	s.now = func() time.Time { return time.UnixMilli(42) }

	require.NoError(t, s.Publish(context.Background(), sampleOutput()))
	require.NoError(t, s.Close())

	require.Len(t, envelopes, 3)
	assert.Equal(t, TypeWalletScore, envelopes[0].Type)
	assert.Equal(t, int64(42), envelopes[0].TS)
	assert.Equal(t, TypeScoreRun, envelopes[2].Type)

	var first ScoreMessage
	require.NoError(t, json.Unmarshal(envelopes[0].Data, &first))
	assert.Equal(t, ScoreMessage{RunID: "run-1", Wallet: "W1", Score: 1000, Rank: 1, Band: "900-1000"}, first)

	var run RunMessage
	require.NoError(t, json.Unmarshal(envelopes[2].Data, &run))
	assert.Equal(t, 2, run.WalletCount)
	assert.Equal(t, "weights", run.WeightsVersion)
}

func TestKafkaSink_ProducerError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndSucceed()
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	producer.ExpectSendMessageAndSucceed()

	s := NewKafkaSinkWithProducer(producer, "wallet-scores")
	err := s.Publish(context.Background(), sampleOutput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka publish failed")
	require.NoError(t, s.Close())
}

func TestKafkaSink_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	s := NewKafkaSinkWithProducer(producer, "wallet-scores")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Publish(ctx, sampleOutput()), context.Canceled)
	require.NoError(t, s.Close())
}
