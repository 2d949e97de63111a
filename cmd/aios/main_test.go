package main

import (
	"strings"
	"testing"
)

func TestRootCommandWiring(t *testing.T) {
	want := []string{"module", "devices", "emotion", "cloud", "version"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected subcommand %q on root", name)
		}
	}
}

func TestModuleSubcommands(t *testing.T) {
	want := []string{"register", "verify", "verify-all", "list", "watch"}
	for _, name := range want {
		found := false
		for _, c := range moduleCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected module subcommand %q", name)
		}
	}
}

func TestCloudFromArgs(t *testing.T) {
	args := []string{"cloud1", "0.5", "1.2", "0.8", "255", "0", "0", "255", "0.9", "joyful_sphere"}
	cloud, err := cloudFromArgs(args)
	if err != nil {
		t.Fatalf("cloudFromArgs returned error: %v", err)
	}
	if cloud.ID != "cloud1" || cloud.Shape != "joyful_sphere" {
		t.Fatalf("unexpected cloud identity: %+v", cloud)
	}
	if cloud.Color != [4]uint8{255, 0, 0, 255} {
		t.Fatalf("unexpected color: %v", cloud.Color)
	}
	if cloud.Intensity < 0.89 || cloud.Intensity > 0.91 {
		t.Fatalf("unexpected intensity: %v", cloud.Intensity)
	}

	bad := []string{"cloud1", "x", "1.2", "0.8", "255", "0", "0", "255", "0.9", "s"}
	if _, err := cloudFromArgs(bad); err == nil || !strings.Contains(err.Error(), "invalid coordinate") {
		t.Fatalf("expected coordinate error, got %v", err)
	}

	bad[1] = "0.5"
	bad[4] = "300"
	if _, err := cloudFromArgs(bad); err == nil || !strings.Contains(err.Error(), "invalid color channel") {
		t.Fatalf("expected color error, got %v", err)
	}
}

func TestStylesForTheme(t *testing.T) {
	if got := stylesForTheme("dark"); !got.Theme.IsDark {
		t.Error("dark theme should select the dark style set")
	}
	if got := stylesForTheme("light"); got.Theme.IsDark {
		t.Error("light theme should select the light style set")
	}
	// anything else defers to terminal detection, which must not panic
	_ = stylesForTheme("")
	_ = stylesForTheme("solarized")
}

func TestHelpMarkdownCoversCommands(t *testing.T) {
	for _, cmd := range []string{
		"echo", "ls", "cd", "pwd", "mkdir", "rm", "cat",
		"register_mod", "run_mod", "verify_mod", "list_mods",
		"emotion_test", "devices", "tensor_add",
		"celestial_add_cloud", "celestial_nearest", "exit",
	} {
		if !strings.Contains(helpMarkdown, cmd) {
			t.Fatalf("help markdown missing %q", cmd)
		}
	}
}
