package main

import (
	"context"
	"flag"
	"os"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1beta1"
	"github.com/openai/openai-go"

	"readleaf/assistant"
	"readleaf/batch"
	"readleaf/cmd/internal/logger"
	"readleaf/config"
	"readleaf/db"
	"readleaf/eventbus"
	"readleaf/imagegen"
	"readleaf/levels"
	"readleaf/notify"
	"readleaf/questions"
	"readleaf/repositories"
	"readleaf/speech"
	"readleaf/storage"
)

func main() {
	amount := flag.Int("amount", 1, "number of topic rows to generate (three articles each)")
	topics := flag.String("topics", "", "path to the topic catalog CSV (defaults to config)")
	flag.Parse()

	config.InitApp()
	logger.InitFromEnv("LOG_LEVEL")
	cfg := config.GetConfig()

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		logger.Log.Errorf("failed to initialize database: %v", err)
		return
	}
	database := db.Database()

	topicsPath := *topics
	if topicsPath == "" {
		topicsPath = cfg.Generation.TopicsFile
	}
	rows, err := batch.LoadTopics(topicsPath)
	if err != nil {
		logger.Log.Errorf("failed to load topic catalog: %v", err)
		return
	}
	sampler, err := batch.NewSampler(rows, time.Now().UnixNano())
	if err != nil {
		logger.Log.Errorf("failed to build topic sampler: %v", err)
		return
	}

	articleRepo := repositories.NewArticleRepository(database)
	questionRepo := repositories.NewQuestionRepository(database)
	runRepo := repositories.NewGenerationRunRepository(database)

	bucket, err := storage.NewBucket(ctx, cfg.Storage.Bucket, cfg.Storage.CDNDomain)
	if err != nil {
		logger.Log.Errorf("failed to open storage bucket: %v", err)
		return
	}

	ttsClient, err := texttospeech.NewClient(ctx)
	if err != nil {
		logger.Log.Errorf("failed to create speech client: %v", err)
		return
	}
	defer ttsClient.Close()
	audioSynth := speech.NewSynthesizer(ttsClient, bucket, articleRepo,
		cfg.Speech.LanguageCode, cfg.Speech.Voices, time.Now().UnixNano())

	oai := openai.NewClient()
	imageSynth := imagegen.NewSynthesizer(oai, bucket, cfg.Image.Model, cfg.Image.Size)
	questionGen := questions.NewGenerator(os.Getenv("GEMINI_API_KEY"), cfg.Questions.Model, questionRepo)

	assistantID := cfg.Assistant.AssistantID
	if assistantID == "" {
		assistantID = os.Getenv("ASSISTANT_ID")
	}
	client := assistant.NewOpenAIClient(oai, assistantID)
	sessions := assistant.NewSessionStore(client, time.Duration(cfg.Assistant.SessionTTLMinutes)*time.Minute)
	poller := assistant.NewPoller(client,
		time.Duration(cfg.Assistant.PollIntervalSeconds)*time.Second,
		cfg.Assistant.MaxPollAttempts)
	driver := assistant.NewDriver(sessions, poller, levels.NewHTTPScorer(cfg.Scorer.BaseURL))

	var notifier notify.Notifier = notify.NopNotifier{}
	if brokers := eventbus.GetBrokers(); brokers != "" {
		bus, err := eventbus.NewKafkaEventBus(brokers)
		if err != nil {
			logger.Log.Errorf("failed to create event bus: %v", err)
			return
		}
		defer bus.Close()
		notifier = notify.NewBusNotifier(bus, "generate")
	}

	generator := batch.NewGenerator(driver, articleRepo, questionGen, imageSynth, audioSynth,
		runRepo, notifier, sampler,
		cfg.Generation.SlotRetries,
		time.Duration(cfg.Generation.RetryDelaySec)*time.Second,
		time.Now().UnixNano())

	logger.Log.Infof("starting bulk generation: %d row(s), catalog %s", *amount, topicsPath)
	run, err := generator.Run(ctx, *amount)
	if err != nil {
		logger.Log.Errorf("bulk generation stopped: %v", err)
	}
	if run != nil {
		for _, warning := range run.Warnings {
			logger.Log.Warnf("fan-out incomplete: %s", warning)
		}
		logger.InfoWithFields("bulk generation finished", logger.Fields{
			"run_id":      run.ID.Hex(),
			"rows_done":   run.RowsDone,
			"generated":   run.Generated,
			"errors":      run.Errors,
			"warnings":    len(run.Warnings),
			"tier_counts": run.TierCounts,
		})
	}
}
