// Package emotion implements the HAL emotional reasoning service: a
// keyword-lexicon classifier that tags text with a primary emotion and a
// fixed intensity. Rules are matched in order, first hit wins.
package emotion

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"aios/internal/logging"
)

// Analysis is the result of analyzing a piece of text.
type Analysis struct {
	Emotion   string  `json:"emotion"`
	Intensity float32 `json:"intensity"`
}

// Engine analyzes the emotional context of text input.
type Engine interface {
	Analyze(text string) (Analysis, error)
}

// Rule maps a set of keywords to an emotion with a fixed intensity.
type Rule struct {
	Emotion   string   `yaml:"emotion"`
	Intensity float32  `yaml:"intensity"`
	Keywords  []string `yaml:"keywords"`
}

// Lexicon is an ordered rule list plus the fallback used when nothing
// matches. Order decides precedence when several keywords appear.
type Lexicon struct {
	Rules   []Rule `yaml:"rules"`
	Default Rule   `yaml:"default"`
}

// DefaultLexicon returns the built-in keyword rules.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Rules: []Rule{
			{Emotion: "joy", Intensity: 0.8, Keywords: []string{"happy", "joy"}},
			{Emotion: "sorrow", Intensity: 0.7, Keywords: []string{"sad", "sorrow"}},
			{Emotion: "anger", Intensity: 0.9, Keywords: []string{"angry", "anger"}},
			{Emotion: "fear", Intensity: 0.6, Keywords: []string{"fear"}},
		},
		Default: Rule{Emotion: "neutral", Intensity: 0.5},
	}
}

// LoadLexicon reads a lexicon from a YAML file.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon: %w", err)
	}
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon: %w", err)
	}
	if len(lex.Rules) == 0 {
		return Lexicon{}, fmt.Errorf("lexicon %s has no rules", path)
	}
	if lex.Default.Emotion == "" {
		lex.Default = DefaultLexicon().Default
	}
	return lex, nil
}

// LexiconEngine classifies text with a keyword lexicon.
type LexiconEngine struct {
	lexicon Lexicon
}

// NewLexiconEngine builds an engine with the built-in lexicon.
func NewLexiconEngine() *LexiconEngine {
	return &LexiconEngine{lexicon: DefaultLexicon()}
}

// NewLexiconEngineWith builds an engine with a custom lexicon. Keywords are
// lowercased so matching stays case-insensitive regardless of how the
// lexicon file spells them.
func NewLexiconEngineWith(lex Lexicon) *LexiconEngine {
	rules := make([]Rule, len(lex.Rules))
	for i, rule := range lex.Rules {
		keywords := make([]string, len(rule.Keywords))
		for j, kw := range rule.Keywords {
			keywords[j] = strings.ToLower(kw)
		}
		rule.Keywords = keywords
		rules[i] = rule
	}
	lex.Rules = rules
	return &LexiconEngine{lexicon: lex}
}

var _ Engine = (*LexiconEngine)(nil)

// Analyze lowercases the text and returns the first rule whose keyword
// appears as a substring; the lexicon default otherwise.
func (e *LexiconEngine) Analyze(text string) (Analysis, error) {
	lower := strings.ToLower(text)

	for _, rule := range e.lexicon.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				logging.HAL("emotion: %q -> %s (%.2f)", truncate(text, 40), rule.Emotion, rule.Intensity)
				return Analysis{Emotion: rule.Emotion, Intensity: rule.Intensity}, nil
			}
		}
	}

	return Analysis{Emotion: e.lexicon.Default.Emotion, Intensity: e.lexicon.Default.Intensity}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
