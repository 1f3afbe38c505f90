package services

import (
	"context"
	"os"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1beta1"
	"github.com/openai/openai-go"

	"readleaf/batch"
	"readleaf/config"
	"readleaf/db"
	"readleaf/eventbus"
	"readleaf/imagegen"
	"readleaf/notify"
	"readleaf/questions"
	"readleaf/repositories"
	"readleaf/speech"
	"readleaf/storage"
	"readleaf/validator"
)

// Container wires the repair pipeline behind the API endpoints.
type Container struct {
	Articles   *ArticleService
	Validation *ValidationService

	tts *texttospeech.Client
	bus eventbus.EventBus
}

// NewContainer builds every dependency of the API binary. The database
// must already be initialized.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := config.GetConfig()
	database := db.Database()

	articleRepo := repositories.NewArticleRepository(database)
	questionRepo := repositories.NewQuestionRepository(database)

	bucket, err := storage.NewBucket(ctx, cfg.Storage.Bucket, cfg.Storage.CDNDomain)
	if err != nil {
		return nil, err
	}

	ttsClient, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	audioSynth := speech.NewSynthesizer(ttsClient, bucket, articleRepo,
		cfg.Speech.LanguageCode, cfg.Speech.Voices, time.Now().UnixNano())

	// openai-go는 OPENAI_API_KEY 환경변수를 기본으로 사용한다.
	oai := openai.NewClient()
	imageSynth := imagegen.NewSynthesizer(oai, bucket, cfg.Image.Model, cfg.Image.Size)

	questionGen := questions.NewGenerator(os.Getenv("GEMINI_API_KEY"), cfg.Questions.Model, questionRepo)

	v := validator.NewValidator(articleRepo, questionRepo, questionGen, bucket,
		imageSynth, audioSynth, cfg.Repair.RegenRetries+1, time.Second)

	c := &Container{tts: ttsClient}

	var notifier notify.Notifier = notify.NopNotifier{}
	if brokers := eventbus.GetBrokers(); brokers != "" {
		bus, err := eventbus.NewKafkaEventBus(brokers)
		if err != nil {
			return nil, err
		}
		c.bus = bus
		notifier = notify.NewBusNotifier(bus, "api")
	}

	repairer := batch.NewRepairer(articleRepo, v, notifier,
		cfg.Repair.MaxConcurrentValidations,
		time.Duration(cfg.Repair.PerRecordTimeoutSeconds)*time.Second)

	c.Articles = NewArticleService(articleRepo, bucket)
	c.Validation = NewValidationService(repairer)
	return c, nil
}

// Close releases the external clients the container owns.
func (c *Container) Close() {
	if c.tts != nil {
		_ = c.tts.Close()
	}
	if c.bus != nil {
		c.bus.Close()
	}
}
