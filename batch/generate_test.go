package batch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"readleaf/assistant"
	"readleaf/batch"
	"readleaf/levels"
	"readleaf/models"
)

type fakeRunner struct {
	fn    func(cls assistant.Classification) (*models.Article, error)
	calls []assistant.Classification
}

func (f *fakeRunner) RunArc(ctx context.Context, actorID string, cls assistant.Classification) (*models.Article, error) {
	f.calls = append(f.calls, cls)
	return f.fn(cls)
}

type fakeInserter struct {
	inserted []*models.Article
}

func (f *fakeInserter) Insert(ctx context.Context, a *models.Article) (primitive.ObjectID, error) {
	a.ID = primitive.NewObjectID()
	f.inserted = append(f.inserted, a)
	return a.ID, nil
}

type fakeQuestionMaker struct {
	kinds []models.QuestionKind
}

func (f *fakeQuestionMaker) Generate(ctx context.Context, article *models.Article, kind models.QuestionKind) error {
	f.kinds = append(f.kinds, kind)
	return nil
}

type fakeMediaMaker struct {
	inputs []string
	err    error
}

func (f *fakeMediaMaker) Synthesize(ctx context.Context, input, articleID string) error {
	f.inputs = append(f.inputs, input)
	return f.err
}

type fakeRunStore struct {
	saves []models.GenerationRun
}

func (f *fakeRunStore) Start(ctx context.Context, run *models.GenerationRun) (primitive.ObjectID, error) {
	run.ID = primitive.NewObjectID()
	return run.ID, nil
}

func (f *fakeRunStore) Save(ctx context.Context, run *models.GenerationRun) error {
	f.saves = append(f.saves, *run)
	return nil
}

func articleFor(cls assistant.Classification) *models.Article {
	return &models.Article{
		Type:             cls.Type,
		Genre:            cls.Genre,
		SubGenre:         cls.SubGenre,
		Topic:            cls.Topic,
		Content:          "One. Two.",
		ImageDescription: "a picture",
		DifficultyTier:   string(cls.Tier),
	}
}

func testSampler(t *testing.T) *batch.Sampler {
	t.Helper()
	s, err := batch.NewSampler([]batch.TopicRow{
		{Type: "fiction", Genre: "adventure", SubGenre: "treasure", Topic: "a lost map"},
		{Type: "non-fiction", Genre: "science", SubGenre: "animals", Topic: "octopus color"},
	}, 7)
	require.NoError(t, err)
	return s
}

func TestRunGeneratesThreeBandsPerRow(t *testing.T) {
	runner := &fakeRunner{fn: func(cls assistant.Classification) (*models.Article, error) {
		return articleFor(cls), nil
	}}
	store := &fakeRunStore{}
	inserter := &fakeInserter{}
	g := batch.NewGenerator(runner, inserter, &fakeQuestionMaker{}, &fakeMediaMaker{}, &fakeMediaMaker{}, store, nil, testSampler(t), 2, 0, 1)

	run, err := g.Run(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, 4, run.RowsDone)
	assert.Equal(t, 12, run.Generated)
	assert.Equal(t, 0, run.Errors)
	assert.Len(t, inserter.inserted, 12)
	// 진행 상황은 행마다 저장된다.
	assert.Len(t, store.saves, 4)
	assert.Equal(t, 3, store.saves[0].Generated)

	// 각 행은 저/중/고 밴드를 한 번씩 돈다.
	bands := map[levels.Band]int{}
	for _, cls := range runner.calls {
		bands[levels.BandOf(cls.Tier)]++
	}
	assert.Equal(t, map[levels.Band]int{levels.BandLow: 4, levels.BandMid: 4, levels.BandHigh: 4}, bands)
}

func TestRunCounterConservationUnderFailures(t *testing.T) {
	// 고급 밴드 슬롯은 전부 실패시킨다.
	runner := &fakeRunner{fn: func(cls assistant.Classification) (*models.Article, error) {
		if levels.BandOf(cls.Tier) == levels.BandHigh {
			return nil, errors.New("arc failed")
		}
		return articleFor(cls), nil
	}}
	g := batch.NewGenerator(runner, &fakeInserter{}, &fakeQuestionMaker{}, &fakeMediaMaker{}, &fakeMediaMaker{}, &fakeRunStore{}, nil, testSampler(t), 2, 0, 1)

	run, err := g.Run(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 10, run.Generated)
	assert.Equal(t, 5, run.Errors)
	assert.Equal(t, 3*run.RowsDone, run.Generated+run.Errors)
}

func TestRunRetriesFailedSlotInPlace(t *testing.T) {
	attempts := 0
	runner := &fakeRunner{fn: func(cls assistant.Classification) (*models.Article, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("transient")
		}
		return articleFor(cls), nil
	}}
	g := batch.NewGenerator(runner, &fakeInserter{}, &fakeQuestionMaker{}, &fakeMediaMaker{}, &fakeMediaMaker{}, &fakeRunStore{}, nil, testSampler(t), 2, 0, 1)

	run, err := g.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, run.Generated)
	assert.Equal(t, 0, run.Errors)
	assert.Equal(t, 4, attempts, "first slot takes two attempts, the rest one")
}

func TestRunFansOutMediaAndQuestions(t *testing.T) {
	runner := &fakeRunner{fn: func(cls assistant.Classification) (*models.Article, error) {
		return articleFor(cls), nil
	}}
	questions := &fakeQuestionMaker{}
	image := &fakeMediaMaker{}
	audio := &fakeMediaMaker{}
	g := batch.NewGenerator(runner, &fakeInserter{}, questions, image, audio, &fakeRunStore{}, nil, testSampler(t), 2, 0, 1)

	_, err := g.Run(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"a picture", "a picture", "a picture"}, image.inputs)
	assert.Equal(t, []string{"One. Two.", "One. Two.", "One. Two."}, audio.inputs)
	assert.Len(t, questions.kinds, 9)
	assert.Contains(t, questions.kinds, models.QuestionMultipleChoice)
	assert.Contains(t, questions.kinds, models.QuestionShortAnswer)
	assert.Contains(t, questions.kinds, models.QuestionLongAnswer)
}

func TestRunMediaFailureDoesNotFailSlot(t *testing.T) {
	runner := &fakeRunner{fn: func(cls assistant.Classification) (*models.Article, error) {
		return articleFor(cls), nil
	}}
	image := &fakeMediaMaker{err: errors.New("image service down")}
	g := batch.NewGenerator(runner, &fakeInserter{}, &fakeQuestionMaker{}, image, &fakeMediaMaker{}, &fakeRunStore{}, nil, testSampler(t), 2, 0, 1)

	run, err := g.Run(context.Background(), 1)
	require.NoError(t, err)
	// 미디어 실패는 복구 배치 몫이다. 생성 카운터는 그대로 증가한다.
	assert.Equal(t, 3, run.Generated)
	assert.Equal(t, 0, run.Errors)
	// 실패한 팬아웃은 경고로 남아 바이너리가 출력한다. 슬롯당 이미지 1건.
	require.Len(t, run.Warnings, 3)
	for _, w := range run.Warnings {
		assert.Contains(t, w, "image:")
		assert.Contains(t, w, "image service down")
	}
}

func TestRunCompleteFanoutLeavesNoWarnings(t *testing.T) {
	runner := &fakeRunner{fn: func(cls assistant.Classification) (*models.Article, error) {
		return articleFor(cls), nil
	}}
	g := batch.NewGenerator(runner, &fakeInserter{}, &fakeQuestionMaker{}, &fakeMediaMaker{}, &fakeMediaMaker{}, &fakeRunStore{}, nil, testSampler(t), 2, 0, 1)

	run, err := g.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, run.Warnings)
}

func TestRunTierCountsFollowScoredTier(t *testing.T) {
	// 스코어러가 요청 티어와 다른 티어를 판정한 경우를 흉내낸다.
	runner := &fakeRunner{fn: func(cls assistant.Classification) (*models.Article, error) {
		a := articleFor(cls)
		a.DifficultyTier = "b2"
		return a, nil
	}}
	g := batch.NewGenerator(runner, &fakeInserter{}, &fakeQuestionMaker{}, &fakeMediaMaker{}, &fakeMediaMaker{}, &fakeRunStore{}, nil, testSampler(t), 2, 0, 1)

	run, err := g.Run(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"b2": 6}, run.TierCounts)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &fakeRunner{fn: func(cls assistant.Classification) (*models.Article, error) {
		return articleFor(cls), nil
	}}
	g := batch.NewGenerator(runner, &fakeInserter{}, &fakeQuestionMaker{}, &fakeMediaMaker{}, &fakeMediaMaker{}, &fakeRunStore{}, nil, testSampler(t), 2, 0, 1)

	run, err := g.Run(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, run.RowsDone)
}
