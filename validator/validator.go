// Package validator checks that every artifact belonging to a stored
// article is present, and re-creates the ones that are missing. Running
// it against a complete article performs no writes, so it is safe to run
// repeatedly over the same records.
package validator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"readleaf/models"
	"readleaf/retry"
	"readleaf/storage"
)

// Articles is the slice of the article repository the validator uses.
type Articles interface {
	GetByID(ctx context.Context, id string) (*models.Article, error)
}

// Questions counts stored question sets per article.
type Questions interface {
	CountByArticle(ctx context.Context, kind models.QuestionKind, articleID string) (int64, error)
}

// QuestionGenerator re-creates a missing question set.
type QuestionGenerator interface {
	Generate(ctx context.Context, article *models.Article, kind models.QuestionKind) error
}

// ObjectChecker probes the media bucket for artifact presence.
type ObjectChecker interface {
	Exists(ctx context.Context, key string) (bool, error)
}

// MediaSynthesizer re-creates a missing media artifact. The image and
// audio synthesizers both satisfy it.
type MediaSynthesizer interface {
	Synthesize(ctx context.Context, input, articleID string) error
}

// Validator resolves the five artifact tasks of one article.
type Validator struct {
	articles  Articles
	questions Questions
	qgen      QuestionGenerator
	store     ObjectChecker
	image     MediaSynthesizer
	audio     MediaSynthesizer

	// 재생성 재시도 폭. attempts 는 총 시도 횟수다 (기본 2회 = 1회 재시도).
	attempts int
	delay    time.Duration
}

func NewValidator(articles Articles, questions Questions, qgen QuestionGenerator, store ObjectChecker, image, audio MediaSynthesizer, attempts int, delay time.Duration) *Validator {
	if attempts < 1 {
		attempts = 2
	}
	return &Validator{
		articles:  articles,
		questions: questions,
		qgen:      qgen,
		store:     store,
		image:     image,
		audio:     audio,
		attempts:  attempts,
		delay:     delay,
	}
}

var questionKindByTask = map[models.Task]models.QuestionKind{
	models.TaskMCQuestions: models.QuestionMultipleChoice,
	models.TaskSAQuestions: models.QuestionShortAnswer,
	models.TaskLAQuestions: models.QuestionLongAnswer,
}

// Validate runs the five artifact checks concurrently and reports each
// outcome. It never returns an error: every failure, including a failed
// record lookup, resolves into failed outcomes so batch aggregation
// always sees one report per id.
func (v *Validator) Validate(ctx context.Context, articleID string) models.ValidationReport {
	article, err := v.articles.GetByID(ctx, articleID)
	if err != nil {
		outcomes := make([]models.ValidationOutcome, len(models.AllTasks))
		for i, task := range models.AllTasks {
			outcomes[i] = failed(task, "article-lookup")
		}
		return models.ValidationReport{ArticleID: articleID, Outcomes: outcomes}
	}

	outcomes := make([]models.ValidationOutcome, len(models.AllTasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, task := range models.AllTasks {
		i, task := i, task
		g.Go(func() error {
			outcomes[i] = v.resolve(gctx, article, task)
			return nil
		})
	}
	_ = g.Wait()

	return models.ValidationReport{ArticleID: articleID, Outcomes: outcomes}
}

func (v *Validator) resolve(ctx context.Context, article *models.Article, task models.Task) models.ValidationOutcome {
	switch task {
	case models.TaskImage:
		return v.resolveImage(ctx, article)
	case models.TaskAudio:
		return v.resolveAudio(ctx, article)
	default:
		return v.resolveQuestions(ctx, article, task)
	}
}

func (v *Validator) resolveQuestions(ctx context.Context, article *models.Article, task models.Task) models.ValidationOutcome {
	kind := questionKindByTask[task]
	id := article.ID.Hex()

	count, err := v.questions.CountByArticle(ctx, kind, id)
	if err != nil {
		return failed(task, "question-count")
	}
	if count > 0 {
		return pass(task)
	}

	err = retry.Do(ctx, v.attempts, v.delay, func(ctx context.Context) error {
		return v.qgen.Generate(ctx, article, kind)
	})
	if err != nil {
		return failed(task, "question-generate")
	}
	return regenerated(task)
}

func (v *Validator) resolveImage(ctx context.Context, article *models.Article) models.ValidationOutcome {
	id := article.ID.Hex()

	ok, err := v.store.Exists(ctx, storage.ImageKey(id))
	if err != nil {
		return failed(models.TaskImage, "object-stat")
	}
	if ok {
		return pass(models.TaskImage)
	}
	if article.ImageDescription == "" {
		return failed(models.TaskImage, "missing-image-description")
	}

	err = retry.Do(ctx, v.attempts, v.delay, func(ctx context.Context) error {
		return v.image.Synthesize(ctx, article.ImageDescription, id)
	})
	if err != nil {
		return failed(models.TaskImage, "image-generate")
	}
	return regenerated(models.TaskImage)
}

func (v *Validator) resolveAudio(ctx context.Context, article *models.Article) models.ValidationOutcome {
	id := article.ID.Hex()

	ok, err := v.store.Exists(ctx, storage.AudioKey(id))
	if err != nil {
		return failed(models.TaskAudio, "object-stat")
	}
	if !ok {
		// 과거 레코드는 확장자 없는 키에 남아 있을 수 있다.
		ok, err = v.store.Exists(ctx, storage.LegacyAudioKey(id))
		if err != nil {
			return failed(models.TaskAudio, "object-stat")
		}
	}
	if ok {
		return pass(models.TaskAudio)
	}

	err = retry.Do(ctx, v.attempts, v.delay, func(ctx context.Context) error {
		return v.audio.Synthesize(ctx, article.Content, id)
	})
	if err != nil {
		return failed(models.TaskAudio, "audio-generate")
	}
	return regenerated(models.TaskAudio)
}

func pass(task models.Task) models.ValidationOutcome {
	return models.ValidationOutcome{Task: task, Status: models.OutcomePass}
}

func regenerated(task models.Task) models.ValidationOutcome {
	return models.ValidationOutcome{Task: task, Status: models.OutcomeRegenerated}
}

func failed(task models.Task, code string) models.ValidationOutcome {
	return models.ValidationOutcome{Task: task, Status: models.OutcomeFailed, ErrorCode: code}
}
