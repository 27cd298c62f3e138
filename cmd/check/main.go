// Command check runs a duplicate check (and optionally a registration)
// against a running API server and renders the verdict.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"dedupgate/client"
	"dedupgate/types"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginTop(1).
			MarginBottom(1)

	acceptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)
)

func main() {
	_ = godotenv.Load()

	name := flag.String("name", "", "full name")
	email := flag.String("email", "", "email address")
	address := flag.String("address", "", "postal address")
	phone := flag.String("phone", "", "phone number")
	apiURL := flag.String("api", client.GetEnvOrDefault("API_URL", "http://localhost:8080"), "API base URL")
	topK := flag.Int("k", 0, "candidates to retrieve (0 = server default)")
	method := flag.String("method", "", "similarity method (jarowinkler, jaro, levenshtein)")
	fieldThreshold := flag.Float64("field-threshold", 0, "per-field similarity threshold (0 = server default)")
	decisionThreshold := flag.Float64("decision-threshold", 0, "composite score threshold (0 = server default)")
	register := flag.Bool("register", false, "register the customer when no duplicate is found")
	flag.Parse()

	input := &types.RegistrationInput{
		FullName: *name,
		Email:    *email,
		Address:  *address,
		Phone:    *phone,
	}
	overrides := client.CheckOverrides{
		TopK:              *topK,
		Method:            *method,
		FieldThreshold:    *fieldThreshold,
		DecisionThreshold: *decisionThreshold,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.NewClient(*apiURL)

	fmt.Println(titleStyle.Render("Registration Duplicate Check"))

	if *register {
		result, err := c.Register(ctx, input, overrides)
		if err != nil {
			log.Fatalf("register failed: %v", err)
		}
		renderCheck(result.Check)
		if result.Status == "registered" && result.Customer != nil {
			fmt.Println(acceptStyle.Render("REGISTERED") + infoStyle.Render(" id="+result.Customer.ID))
		}
		if result.Check != nil && result.Check.IsDuplicate {
			os.Exit(1)
		}
		return
	}

	result, err := c.CheckRegistration(ctx, input, overrides)
	if err != nil {
		log.Fatalf("check failed: %v", err)
	}
	renderCheck(result)
	if result.IsDuplicate {
		os.Exit(1)
	}
}

func renderCheck(result *types.CheckResult) {
	if result == nil {
		return
	}

	verdict := acceptStyle.Render("NO DUPLICATE FOUND")
	if result.IsDuplicate {
		verdict = rejectStyle.Render("DUPLICATE DETECTED")
	}

	body := verdict + "\n" +
		infoStyle.Render(fmt.Sprintf("compared %d candidate(s)", result.ComparedCount))
	if result.ExactPrecheck {
		body += "\n" + infoStyle.Render("exact identity pre-check: hit")
	}

	for i, m := range result.Matches {
		body += fmt.Sprintf("\n\n#%d  %s", i+1, m.FullName)
		if m.Email != "" {
			body += "\n    " + m.Email
		}
		if m.Address != "" {
			body += "\n    " + m.Address
		}
		if m.Phone != "" {
			body += "\n    " + m.Phone
		}
		body += "\n    " + infoStyle.Render(
			fmt.Sprintf("retrieval %.4f  composite %.1f  id=%s", m.RetrievalScore, m.CompositeScore, m.ID))
	}

	fmt.Println(boxStyle.Render(body))
}
