package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging     LoggingConfig    `yaml:"logging"`
	MongoURI    string           `yaml:"mongo_uri"`
	MongoDBName string           `yaml:"mongo_db_name"`
	Assistant   AssistantConfig  `yaml:"assistant"`
	Questions   QuestionsConfig  `yaml:"questions"`
	Image       ImageConfig      `yaml:"image"`
	Speech      SpeechConfig     `yaml:"speech"`
	Scorer      ScorerConfig     `yaml:"scorer"`
	Storage     StorageConfig    `yaml:"storage"`
	Repair      RepairConfig     `yaml:"repair"`
	Generation  GenerationConfig `yaml:"generation"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// AssistantConfig 는 대화형 생성 서비스(세션/런) 관련 설정이다.
type AssistantConfig struct {
	// AssistantID 는 서버에 등록된 어시스턴트 ID 이다. 비어 있으면 env ASSISTANT_ID 를 사용한다.
	AssistantID string `yaml:"assistant_id"`

	// PollIntervalSeconds 는 런 상태 폴링 사이의 대기 시간이다. 0 이하면 2초를 사용한다.
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`

	// MaxPollAttempts 는 하나의 런에 대한 최대 폴링 횟수이다. 0 이하면 150회를 사용한다.
	MaxPollAttempts int `yaml:"max_poll_attempts"`

	// SessionTTLMinutes 는 actor 별 세션 캐시의 보존 시간이다. 0 이하면 30분을 사용한다.
	SessionTTLMinutes int `yaml:"session_ttl_minutes"`
}

type QuestionsConfig struct {
	Model string `yaml:"model"`
}

type ImageConfig struct {
	Model string `yaml:"model"`
	Size  string `yaml:"size"`
}

type SpeechConfig struct {
	LanguageCode string   `yaml:"language_code"`
	Voices       []string `yaml:"voices"`
}

type ScorerConfig struct {
	BaseURL string `yaml:"base_url"`
}

type StorageConfig struct {
	Bucket    string `yaml:"bucket"`
	CDNDomain string `yaml:"cdn_domain"`
}

// RepairConfig 는 아티팩트 검증/복구 배치에 대한 설정이다.
type RepairConfig struct {
	// MaxConcurrentValidations 는 동시에 수행할 레코드 검증 수의 상한이다.
	// 외부 서비스 rate limit 을 넘지 않도록 제한한다. 0 이하면 8을 사용한다.
	MaxConcurrentValidations int `yaml:"max_concurrent_validations"`

	// RegenRetries 는 누락 아티팩트 재생성 시 추가 재시도 횟수이다. 기본 1회.
	RegenRetries int `yaml:"regen_retries"`

	// PerRecordTimeoutSeconds 는 레코드 하나의 검증에 허용하는 시간이다. 0 이하면 300초.
	PerRecordTimeoutSeconds int `yaml:"per_record_timeout_seconds"`
}

type GenerationConfig struct {
	TopicsFile    string `yaml:"topics_file"`
	SlotRetries   int    `yaml:"slot_retries"`
	RetryDelaySec int    `yaml:"retry_delay_seconds"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
