package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"aios/internal/config"
	"aios/internal/hal/emotion"
)

var emotionCmd = &cobra.Command{
	Use:   "emotion [text...]",
	Short: "Analyze the emotional context of text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// the emotion engine needs no HAL backends, so build it directly
		dataDir, err := config.DataDir()
		if err != nil {
			return err
		}
		cfg, err := config.Load(dataDir)
		if err != nil {
			return err
		}

		engine := emotion.NewLexiconEngine()
		if cfg.Emotion.LexiconPath != "" {
			lex, err := emotion.LoadLexicon(cfg.Emotion.LexiconPath)
			if err != nil {
				return err
			}
			engine = emotion.NewLexiconEngineWith(lex)
		}

		analysis, err := engine.Analyze(strings.Join(args, " "))
		if err != nil {
			return err
		}
		if isJSONOutput() {
			return printJSON(analysis)
		}
		fmt.Printf("Emotional Analysis: Primary: %s, Intensity: %v\n", analysis.Emotion, analysis.Intensity)
		return nil
	},
}
