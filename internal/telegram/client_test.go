package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/rewired-gh/draworacle/internal/analysis"
	"github.com/rewired-gh/draworacle/internal/dashboard"
	"github.com/rewired-gh/draworacle/internal/models"
)

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"2024-04-09", "2024\\-04\\-09"},
		{"12.5!", "12\\.5\\!"},
		{"(a_b)", "\\(a\\_b\\)"},
		{"组六", "组六"},
	}

	for _, tt := range tests {
		result := escapeMarkdownV2(tt.input)
		if result != tt.expected {
			t.Errorf("escapeMarkdownV2(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestFormatDigest(t *testing.T) {
	latest, err := models.NewDraw("2024100", "2024-04-09", models.Digits{3, 4, 5})
	if err != nil {
		t.Fatalf("NewDraw failed: %v", err)
	}

	d := &dashboard.Dashboard{
		GeneratedAt:   time.Now(),
		Draws:         100,
		Latest:        &latest,
		HotColdWindow: 30,
		Hot:           []analysis.DigitCount{{Digit: 7, Count: 14}, {Digit: 2, Count: 12}},
		Cold:          []analysis.DigitCount{{Digit: 0, Count: 5}},
		Predictions: []models.Prediction{
			{Name: "3d", Digits: []int{1, 4, 7}, Confidence: 72, Window: 30},
		},
		Summary: analysis.Summary{Draws: 50, SumMean: 13.5, SumStdDev: 4.2},
	}

	msg := FormatDigest(d)

	for _, want := range []string{
		"Period *2024100* \\(2024\\-04\\-09\\)",
		"Numbers: *3 4 5*",
		"Sum 12 · Span 2 · 顺子",
		"Hot \\(last 30\\): 7×14, 2×12",
		"Cold \\(last 30\\): 0×5",
		"3d: *1 4 7* \\(confidence 72%\\)",
		"Sum mean 13\\.5 ± 4\\.2",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("digest missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatDigestEmpty(t *testing.T) {
	msg := FormatDigest(&dashboard.Dashboard{})
	if !strings.Contains(msg, "No draws available\\.") {
		t.Errorf("unexpected empty digest: %q", msg)
	}
}
