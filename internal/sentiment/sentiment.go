// Package sentiment scores news text toward a topic on a 0-1 scale.
package sentiment

import (
	"context"
	"log/slog"
	"math"

	"github.com/jonreiter/govader"

	"github.com/TobiSchelling/RepMonitor/internal/lexicon"
	"github.com/TobiSchelling/RepMonitor/internal/translate"
)

// Neutral is returned whenever the text could not be translated.
const Neutral = 0.5

// PolarityModel produces a compound polarity in [-1, 1] for English text.
type PolarityModel interface {
	Compound(text string) float64
}

// VaderModel is the VADER lexicon/rule model. It holds no per-call state and
// is safe to share between goroutines.
type VaderModel struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderModel loads the VADER lexicon. Build it once per process.
func NewVaderModel() *VaderModel {
	return &VaderModel{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Compound implements PolarityModel.
func (v *VaderModel) Compound(text string) float64 {
	return v.analyzer.PolarityScores(text).Compound
}

// Bounds are the clamp values applied on a lexicon match.
type Bounds struct {
	NegativeCeiling float64
	PositiveFloor   float64
}

// DefaultBounds returns the 0.20 / 0.85 clamps.
func DefaultBounds() Bounds {
	return Bounds{NegativeCeiling: 0.20, PositiveFloor: 0.85}
}

// Evaluation is the full trace of one scoring call.
type Evaluation struct {
	Value             float64
	Compound          float64
	Override          lexicon.Verdict
	Term              string
	TranslationFailed bool
}

// Scorer combines translation, a polarity model and the lexicon override.
type Scorer struct {
	translator translate.Translator
	model      PolarityModel
	lexicon    *lexicon.Tables
	bounds     Bounds
}

// NewScorer creates a scorer. A nil lexicon disables overrides.
func NewScorer(translator translate.Translator, model PolarityModel, lex *lexicon.Tables, bounds Bounds) *Scorer {
	if lex == nil {
		lex = lexicon.New(nil, nil)
	}
	return &Scorer{translator: translator, model: model, lexicon: lex, bounds: bounds}
}

// Score returns a value in [0, 1]. It never fails: an untranslatable text
// scores exactly Neutral.
func (s *Scorer) Score(ctx context.Context, text string) float64 {
	return s.Evaluate(ctx, text).Value
}

// Evaluate scores text and reports how the value was reached.
func (s *Scorer) Evaluate(ctx context.Context, text string) Evaluation {
	tr := translate.Attempt(ctx, s.translator, text)
	if tr.Failed() {
		slog.Debug("translation failed, scoring neutral", "err", tr.Err)
		return Evaluation{Value: Neutral, TranslationFailed: true}
	}

	compound := clamp(s.model.Compound(tr.Text), -1, 1)
	ev := Evaluation{
		Value:    (compound + 1) / 2,
		Compound: compound,
	}

	// The lexicon runs on the source-language text so translation cannot
	// hide or invent a trigger word.
	ev.Override, ev.Term = s.lexicon.Match(text)
	switch ev.Override {
	case lexicon.Negative:
		ev.Value = math.Min(ev.Value, s.bounds.NegativeCeiling)
	case lexicon.Positive:
		ev.Value = math.Max(ev.Value, s.bounds.PositiveFloor)
	}

	ev.Value = clamp(ev.Value, 0, 1)
	return ev
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
