package sentiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/TobiSchelling/RepMonitor/internal/lexicon"
)

type fakeTranslator struct {
	err error
}

func (f fakeTranslator) Translate(_ context.Context, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return text, nil
}

type fixedModel float64

func (m fixedModel) Compound(string) float64 { return float64(m) }

func testLexicon() *lexicon.Tables {
	return lexicon.New(
		[]string{"récord", "lidera", "profit"},
		[]string{"crisis", "desplome", "collapse"},
	)
}

func TestScoreNormalizesCompound(t *testing.T) {
	cases := map[float64]float64{-1: 0, 0: 0.5, 1: 1, 0.5: 0.75, -0.4: 0.3}
	for compound, want := range cases {
		s := NewScorer(fakeTranslator{}, fixedModel(compound), nil, DefaultBounds())
		if got := s.Score(context.Background(), "texto neutro"); math.Abs(got-want) > 1e-9 {
			t.Errorf("compound %v: expected %v, got %v", compound, want, got)
		}
	}
}

func TestScoreTranslationFailureIsNeutral(t *testing.T) {
	s := NewScorer(fakeTranslator{err: errors.New("quota exceeded")}, fixedModel(0.9), testLexicon(), DefaultBounds())
	ev := s.Evaluate(context.Background(), "Desplome de la crisis")
	if ev.Value != 0.5 {
		t.Errorf("expected exactly 0.5, got %v", ev.Value)
	}
	if !ev.TranslationFailed {
		t.Error("expected TranslationFailed to be set")
	}
	if ev.Override != lexicon.None {
		t.Error("lexicon must not run after a failed translation")
	}
}

func TestScoreNilTranslatorIsNeutral(t *testing.T) {
	s := NewScorer(nil, fixedModel(0.9), nil, DefaultBounds())
	if got := s.Score(context.Background(), "cualquier texto"); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
}

func TestNegativeLexiconCaps(t *testing.T) {
	s := NewScorer(fakeTranslator{}, fixedModel(0.8), testLexicon(), DefaultBounds())
	ev := s.Evaluate(context.Background(), "La CRISIS del sector")
	if ev.Value != 0.20 {
		t.Errorf("expected 0.20, got %v", ev.Value)
	}
	if ev.Override != lexicon.Negative || ev.Term != "crisis" {
		t.Errorf("unexpected override %s/%q", ev.Override, ev.Term)
	}
}

func TestNegativeLexiconKeepsLowerScore(t *testing.T) {
	s := NewScorer(fakeTranslator{}, fixedModel(-0.9), testLexicon(), DefaultBounds())
	if got := s.Score(context.Background(), "desplome total"); math.Abs(got-0.05) > 1e-9 {
		t.Errorf("expected 0.05 to be kept, got %v", got)
	}
}

func TestPositiveLexiconRaises(t *testing.T) {
	s := NewScorer(fakeTranslator{}, fixedModel(-0.2), testLexicon(), DefaultBounds())
	if got := s.Score(context.Background(), "Almería lidera la exportación"); got != 0.85 {
		t.Errorf("expected 0.85, got %v", got)
	}
}

func TestPositiveLexiconKeepsHigherScore(t *testing.T) {
	s := NewScorer(fakeTranslator{}, fixedModel(0.9), testLexicon(), DefaultBounds())
	if got := s.Score(context.Background(), "récord de ventas"); math.Abs(got-0.95) > 1e-9 {
		t.Errorf("expected 0.95 to be kept, got %v", got)
	}
}

func TestNegativeWinsOverPositive(t *testing.T) {
	s := NewScorer(fakeTranslator{}, fixedModel(1), testLexicon(), DefaultBounds())
	if got := s.Score(context.Background(), "Récord de pérdidas y crisis en el campo"); got > 0.20 {
		t.Errorf("expected <= 0.20 when both lists match, got %v", got)
	}
}

func TestLexiconRunsOnUntranslatedText(t *testing.T) {
	translated := translatorFunc(func(string) string { return "historic collapse" })
	s := NewScorer(translated, fixedModel(0.3), testLexicon(), DefaultBounds())
	// "collapse" only appears after translation and must not trigger.
	ev := s.Evaluate(context.Background(), "derrumbe histórico")
	if ev.Override != lexicon.None {
		t.Errorf("expected no override, got %s", ev.Override)
	}
}

func TestScoreAlwaysInRange(t *testing.T) {
	for _, c := range []float64{-5, -1, -0.3, 0, 0.7, 1, 3, math.NaN()} {
		for _, text := range []string{"crisis", "récord", "nada"} {
			s := NewScorer(fakeTranslator{}, fixedModel(c), testLexicon(), DefaultBounds())
			got := s.Score(context.Background(), text)
			if got < 0 || got > 1 || math.IsNaN(got) {
				t.Errorf("compound %v text %q: score %v out of range", c, text, got)
			}
		}
	}
}

func TestVaderModel(t *testing.T) {
	m := NewVaderModel()
	if pos := m.Compound("Exports hit a great record, wonderful success"); pos <= 0 {
		t.Errorf("expected positive compound, got %v", pos)
	}
	if neg := m.Compound("Terrible disaster, farmers devastated by horrible losses"); neg >= 0 {
		t.Errorf("expected negative compound, got %v", neg)
	}
}

type translatorFunc func(string) string

func (f translatorFunc) Translate(_ context.Context, text string) (string, error) {
	return f(text), nil
}
