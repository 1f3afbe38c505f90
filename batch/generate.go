package batch

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"readleaf/assistant"
	"readleaf/levels"
	"readleaf/models"
	"readleaf/notify"
	"readleaf/retry"
)

// ArcRunner produces one finished article per call.
type ArcRunner interface {
	RunArc(ctx context.Context, actorID string, cls assistant.Classification) (*models.Article, error)
}

// ArticleInserter persists a freshly generated article.
type ArticleInserter interface {
	Insert(ctx context.Context, a *models.Article) (primitive.ObjectID, error)
}

// QuestionMaker creates one question set per kind for a stored article.
type QuestionMaker interface {
	Generate(ctx context.Context, article *models.Article, kind models.QuestionKind) error
}

// MediaMaker creates one media artifact for a stored article.
type MediaMaker interface {
	Synthesize(ctx context.Context, input, articleID string) error
}

// RunStore persists bulk-generation progress.
type RunStore interface {
	Start(ctx context.Context, run *models.GenerationRun) (primitive.ObjectID, error)
	Save(ctx context.Context, run *models.GenerationRun) error
}

// Generator runs the bulk-generation batch: per sampled topic row it
// generates one article in each difficulty band.
type Generator struct {
	runner    ArcRunner
	articles  ArticleInserter
	questions QuestionMaker
	image     MediaMaker
	audio     MediaMaker
	runs      RunStore
	notifier  notify.Notifier
	sampler   *Sampler

	// slotRetries 는 총 시도 횟수다. 한 슬롯이 모두 실패하면 오류 카운터만
	// 올리고 다음 슬롯으로 넘어간다.
	slotRetries int
	retryDelay  time.Duration

	rng *rand.Rand
}

func NewGenerator(runner ArcRunner, articles ArticleInserter, questions QuestionMaker, image, audio MediaMaker, runs RunStore, notifier notify.Notifier, sampler *Sampler, slotRetries int, retryDelay time.Duration, seed int64) *Generator {
	if slotRetries < 1 {
		slotRetries = 2
	}
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &Generator{
		runner:      runner,
		articles:    articles,
		questions:   questions,
		image:       image,
		audio:       audio,
		runs:        runs,
		notifier:    notifier,
		sampler:     sampler,
		slotRetries: slotRetries,
		retryDelay:  retryDelay,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Run generates three articles (one per band) for each of rows sampled
// topic rows. Progress persists after every row, so generated + errors
// always equals three times rows_done. A cancelled context stops the
// batch at the next row boundary with progress saved.
func (g *Generator) Run(ctx context.Context, rows int) (*models.GenerationRun, error) {
	run := &models.GenerationRun{
		RequestedRows: rows,
		TierCounts:    map[string]int{},
	}
	if _, err := g.runs.Start(ctx, run); err != nil {
		return nil, err
	}
	actorID := run.ID.Hex()

	var prev *TopicRow
	for i := 0; i < rows; i++ {
		if ctx.Err() != nil {
			return run, ctx.Err()
		}

		row := g.sampler.Pick(prev)
		prev = &row

		for _, band := range levels.Bands {
			tier := levels.PickTier(band, g.rng)
			cls := assistant.Classification{
				Type:     models.ArticleType(row.Type),
				Genre:    row.Genre,
				SubGenre: row.SubGenre,
				Topic:    row.Topic,
				Tier:     tier,
			}
			article, warnings, err := g.generateSlot(ctx, actorID, cls)
			if err != nil {
				run.Errors++
				continue
			}
			run.Generated++
			run.Warnings = append(run.Warnings, warnings...)
			// 스코어러가 부여한 최종 티어를 집계한다. 요청 티어와 다를 수 있다.
			run.TierCounts[article.DifficultyTier]++
		}

		run.RowsDone++
		if err := g.runs.Save(ctx, run); err != nil {
			return run, err
		}
	}
	return run, nil
}

// generateSlot runs the arc and persists the article, retrying the whole
// attempt in place on failure. Post-persist fan-out (media, questions,
// notification) is best-effort: failures come back as warnings on the
// run record and the repair batch recovers the missing artifacts.
func (g *Generator) generateSlot(ctx context.Context, actorID string, cls assistant.Classification) (*models.Article, []string, error) {
	var article *models.Article
	err := retry.Do(ctx, g.slotRetries, g.retryDelay, func(ctx context.Context) error {
		a, err := g.runner.RunArc(ctx, actorID, cls)
		if err != nil {
			return err
		}
		if _, err := g.articles.Insert(ctx, a); err != nil {
			return err
		}
		article = a
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	id := article.ID.Hex()
	var warnings []string
	if err := g.image.Synthesize(ctx, article.ImageDescription, id); err != nil {
		warnings = append(warnings, fmt.Sprintf("article %s: image: %v", id, err))
	}
	if err := g.audio.Synthesize(ctx, article.Content, id); err != nil {
		warnings = append(warnings, fmt.Sprintf("article %s: audio: %v", id, err))
	}
	for _, kind := range []models.QuestionKind{
		models.QuestionMultipleChoice,
		models.QuestionShortAnswer,
		models.QuestionLongAnswer,
	} {
		if err := g.questions.Generate(ctx, article, kind); err != nil {
			warnings = append(warnings, fmt.Sprintf("article %s: %s questions: %v", id, kind, err))
		}
	}
	if err := g.notifier.ArticleGenerated(ctx, article); err != nil {
		warnings = append(warnings, fmt.Sprintf("article %s: notify: %v", id, err))
	}

	return article, warnings, nil
}
