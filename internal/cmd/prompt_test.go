package cmd

import (
	"strings"
	"testing"

	"github.com/yoanbernabeu/sshrun/internal/config"
)

func testSource(stdin string, fromStdin, interactive bool) passwordSource {
	return passwordSource{
		fromStdin:   fromStdin,
		stdin:       strings.NewReader(stdin),
		interactive: func() bool { return interactive },
		prompt: func(prompt string) (string, error) {
			return "prompted:" + prompt, nil
		},
	}
}

func TestPasswordSource_Env(t *testing.T) {
	t.Setenv(config.EnvPassword, "from-env")

	got, err := testSource("from-stdin\n", true, true).resolve("deploy", "example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got != "from-env" {
		t.Errorf("expected env password, got %q", got)
	}
}

func TestPasswordSource_Stdin(t *testing.T) {
	unsetEnv(t, config.EnvPassword)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"newline", "secret\nignored\n", "secret"},
		{"crlf", "secret\r\n", "secret"},
		{"no newline", "secret", "secret"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := testSource(tt.input, true, false).resolve("deploy", "example.com")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPasswordSource_Prompt(t *testing.T) {
	unsetEnv(t, config.EnvPassword)

	got, err := testSource("", false, true).resolve("deploy", "example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got != "prompted:deploy@example.com's password: " {
		t.Errorf("unexpected prompt result %q", got)
	}
}

func TestPasswordSource_NonInteractive(t *testing.T) {
	unsetEnv(t, config.EnvPassword)

	_, err := testSource("", false, false).resolve("deploy", "example.com")
	if err == nil {
		t.Fatal("expected error without a password source")
	}
	if !strings.Contains(err.Error(), config.EnvPassword) {
		t.Errorf("expected hint about %s, got %q", config.EnvPassword, err.Error())
	}
}
