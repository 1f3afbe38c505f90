package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"readleaf/levels"
	"readleaf/models"
)

// Stage identifies one handler of the narrative protocol. The remote service
// requests stages as function calls; dispatch is by this enum so the state
// machine stays explicit and exhaustively checked.
type Stage int

const (
	StageAbout Stage = iota
	StageExposition
	StageConflict
	StageRising
	StageClimax
	StageFalling
	StageResolution
	StageAssets
)

func (s Stage) String() string {
	switch s {
	case StageAbout:
		return "about"
	case StageExposition:
		return "exposition"
	case StageConflict:
		return "conflict"
	case StageRising:
		return "rising"
	case StageClimax:
		return "climax"
	case StageFalling:
		return "falling"
	case StageResolution:
		return "resolution"
	case StageAssets:
		return "assets"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Tool names the remote service uses for each stage.
const (
	toolAbout      = "get_about"
	toolExposition = "get_expo"
	toolConflict   = "get_conflict"
	toolRising     = "get_rising"
	toolClimax     = "get_climax"
	toolFalling    = "get_falling"
	toolResolution = "get_resolution"
	toolAssets     = "get_assets"
)

var stageByTool = map[string]Stage{
	toolAbout:      StageAbout,
	toolExposition: StageExposition,
	toolConflict:   StageConflict,
	toolRising:     StageRising,
	toolClimax:     StageClimax,
	toolFalling:    StageFalling,
	toolResolution: StageResolution,
	toolAssets:     StageAssets,
}

// StageForTool maps a requested function name to its stage.
func StageForTool(name string) (Stage, bool) {
	s, ok := stageByTool[name]
	return s, ok
}

// Continuation tokens submitted as tool outputs. Each token tells the remote
// service which protocol command to execute next, so the fixed command order
// about -> outline -> passage -> revise -> assets is chained entirely through
// tool outputs rather than fresh user messages.
const (
	tokenOutline  = "outline"
	tokenPassage  = "passage"
	tokenRevise   = "revise"
	tokenAssets   = "assets"
	tokenContinue = "continue"
	tokenDone     = "done"
)

// continuation returns the token a completed stage hands back.
func (s Stage) continuation() string {
	switch s {
	case StageAbout:
		return tokenOutline
	case StageExposition:
		return tokenContinue
	case StageConflict:
		return tokenPassage
	case StageRising:
		return tokenContinue
	case StageClimax:
		return tokenRevise
	case StageFalling:
		return tokenContinue
	case StageResolution:
		return tokenAssets
	case StageAssets:
		return tokenDone
	default:
		return tokenDone
	}
}

// Classification seeds one arc run.
type Classification struct {
	Type     models.ArticleType
	Genre    string
	SubGenre string
	Topic    string
	Tier     levels.Tier
}

// aboutArgs is the structured payload of get_about.
type aboutArgs struct {
	Topic                string `json:"topic"`
	Genre                string `json:"genre"`
	SubGenre             string `json:"sub_genre"`
	Type                 string `json:"type"`
	TargetLength         int    `json:"target_length"`
	TargetSentenceLength int    `json:"target_sentence_length"`
}

// segmentArgs is the structured payload of the six narrative segment tools.
type segmentArgs struct {
	Text string `json:"text"`
}

// assetsArgs is the structured payload of the terminal get_assets tool.
type assetsArgs struct {
	Title            string `json:"title"`
	Summary          string `json:"summary"`
	ImageDescription string `json:"image_description"`
}

// Draft accumulates the fields each stage yields. Segments are concatenated
// with a paragraph separator into the final body at finalization.
type Draft struct {
	Topic                string
	Genre                string
	SubGenre             string
	Type                 models.ArticleType
	TargetLength         int
	TargetSentenceLength int

	Title            string
	Summary          string
	ImageDescription string

	segments []string
}

// Apply merges one stage's structured arguments into the draft and returns
// the continuation token for that stage.
func (d *Draft) Apply(stage Stage, rawArgs string) (string, error) {
	switch stage {
	case StageAbout:
		var args aboutArgs
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return "", &ArcError{Stage: stage, Err: err}
		}
		if args.Topic != "" {
			d.Topic = args.Topic
		}
		if args.Genre != "" {
			d.Genre = args.Genre
		}
		if args.SubGenre != "" {
			d.SubGenre = args.SubGenre
		}
		if args.Type != "" {
			d.Type = models.ArticleType(args.Type)
		}
		d.TargetLength = args.TargetLength
		d.TargetSentenceLength = args.TargetSentenceLength
		return stage.continuation(), nil

	case StageExposition, StageConflict, StageRising, StageClimax, StageFalling, StageResolution:
		var args segmentArgs
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return "", &ArcError{Stage: stage, Err: err}
		}
		if strings.TrimSpace(args.Text) == "" {
			return "", &ArcError{Stage: stage, Err: fmt.Errorf("empty narrative segment")}
		}
		d.segments = append(d.segments, strings.TrimSpace(args.Text))
		return stage.continuation(), nil

	case StageAssets:
		var args assetsArgs
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return "", &ArcError{Stage: stage, Err: err}
		}
		d.Title = args.Title
		d.Summary = args.Summary
		d.ImageDescription = args.ImageDescription
		return stage.continuation(), nil

	default:
		return "", &ArcError{Stage: stage, Err: fmt.Errorf("unhandled stage")}
	}
}

// Content joins the accumulated narrative segments with paragraph breaks.
func (d *Draft) Content() string {
	return strings.Join(d.segments, "\n\n")
}

// Driver runs one narrative arc per call.
type Driver struct {
	sessions *SessionStore
	poller   *Poller
	scorer   levels.Scorer
}

func NewDriver(sessions *SessionStore, poller *Poller, scorer levels.Scorer) *Driver {
	return &Driver{sessions: sessions, poller: poller, scorer: scorer}
}

// RunArc drives the full narrative protocol for one article. On success the
// returned article is complete except for its database id; the caller
// persists it. Any stage failure discards the whole run.
func (dr *Driver) RunArc(ctx context.Context, actorID string, cls Classification) (*models.Article, error) {
	sessionID, err := dr.sessions.Session(ctx, actorID)
	if err != nil {
		return nil, &ArcError{Stage: StageAbout, Err: err}
	}

	draft := &Draft{
		Topic:    cls.Topic,
		Genre:    cls.Genre,
		SubGenre: cls.SubGenre,
		Type:     cls.Type,
	}

	client := dr.poller.client
	if err := client.PostMessage(ctx, sessionID, aboutCommand(cls)); err != nil {
		return nil, &ArcError{Stage: StageAbout, Err: err}
	}
	jobID, err := client.StartJob(ctx, sessionID)
	if err != nil {
		return nil, &ArcError{Stage: StageAbout, Err: err}
	}

	if err := dr.poller.Drive(ctx, sessionID, jobID, draft); err != nil {
		return nil, err
	}

	content := draft.Content()
	if content == "" || draft.ImageDescription == "" {
		return nil, ErrMissingContent
	}

	score, err := dr.scorer.Score(ctx, content)
	if err != nil {
		return nil, &ArcError{Stage: StageAssets, Err: err}
	}

	return &models.Article{
		Type:             draft.Type,
		Genre:            draft.Genre,
		SubGenre:         draft.SubGenre,
		Topic:            draft.Topic,
		Title:            draft.Title,
		Content:          content,
		Summary:          draft.Summary,
		ImageDescription: draft.ImageDescription,
		DifficultyTier:   string(score.Tier),
		NumericLevel:     score.Level,
		SessionID:        sessionID,
	}, nil
}

// aboutCommand is the single user message that opens the protocol; the rest
// of the arc is chained through tool outputs.
func aboutCommand(cls Classification) string {
	return fmt.Sprintf(
		"about type=%s genre=%q sub_genre=%q topic=%q target_tier=%s",
		cls.Type, cls.Genre, cls.SubGenre, cls.Topic, cls.Tier,
	)
}
