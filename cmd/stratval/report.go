package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/benredmond/stratval/internal/repair"
	"github.com/benredmond/stratval/pkg/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("238"))

	blockingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// printReport renders the findings and scores as colored text.
func printReport(outcome repair.Outcome, scores []models.QualityScore) {
	fmt.Println(headerStyle.Render("Findings"))
	if len(outcome.Findings) == 0 {
		fmt.Println(dimStyle.Render("  none"))
	}
	for _, f := range outcome.Findings {
		line := fmt.Sprintf("  %s", f)
		if f.Priority.Blocking() {
			line = blockingStyle.Render(line)
		} else {
			line = warningStyle.Render(line)
		}
		fmt.Println(line)
	}

	if outcome.Repaired {
		printStatus("✓", "repair round-trip committed", color.FgGreen)
	} else if outcome.FallbackReason != "" {
		printStatus("⚠", fmt.Sprintf("repair fell back to originals: %s", outcome.FallbackReason), color.FgYellow)
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Quality scores"))
	for _, s := range scores {
		symbol, attr := "✗", color.FgRed
		if s.PassesGate {
			symbol, attr = "✓", color.FgGreen
		}
		printStatus(symbol, fmt.Sprintf("%s: %.2f (quant %.2f, coherence %.2f, edge/freq %.2f, div %.2f, syntax %.2f)",
			s.CandidateRef, s.Overall, s.Quantification, s.Coherence,
			s.EdgeFrequency, s.Diversification, s.Syntax), attr)
	}
}

// jsonReport is the machine-readable report shape.
type jsonReport struct {
	Repaired       bool                  `json:"repaired"`
	FallbackReason string                `json:"fallback_reason,omitempty"`
	Findings       []models.Finding      `json:"findings"`
	Scores         []models.QualityScore `json:"scores"`
	Batch          []*models.Candidate   `json:"batch"`
}

// printJSONReport emits the full outcome as JSON on stdout.
func printJSONReport(outcome repair.Outcome, scores []models.QualityScore) error {
	report := jsonReport{
		Repaired:       outcome.Repaired,
		FallbackReason: outcome.FallbackReason,
		Findings:       outcome.Findings,
		Scores:         scores,
		Batch:          outcome.Batch,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
