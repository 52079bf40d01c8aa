package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/civicpulse/civicpulse/internal/database"
	"github.com/civicpulse/civicpulse/internal/intake"
	"github.com/civicpulse/civicpulse/internal/records"
	"github.com/civicpulse/civicpulse/internal/report"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Register policies and read their feedback",
}

var (
	policyDescription string
	policyCategory    string
	policyStatus      string
	policyDeadline    string
)

var policyAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Register a policy open for feedback",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := intake.PolicyInput{
			Title:       args[0],
			Description: policyDescription,
			Category:    policyCategory,
		}
		if policyStatus != "" {
			status, err := parsePolicyStatus(policyStatus)
			if err != nil {
				return err
			}
			in.Status = string(status)
		}
		if policyDeadline != "" {
			deadline, err := time.Parse("2006-01-02", policyDeadline)
			if err != nil {
				return fmt.Errorf("invalid deadline %q (use YYYY-MM-DD)", policyDeadline)
			}
			in.Deadline = &deadline
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		p, err := intake.NewService(db, nil).CreatePolicy(in)
		if err != nil {
			return err
		}
		fmt.Printf("Added policy [%d]: %s (%s)\n", p.ID, p.Title, p.Status)
		return nil
	},
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List policies, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var status records.PolicyStatus
		if policyStatus != "" {
			var err error
			if status, err = parsePolicyStatus(policyStatus); err != nil {
				return err
			}
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		policies, err := db.ListPolicies(status)
		if err != nil {
			return err
		}
		if len(policies) == 0 {
			fmt.Println("No policies found. Add one with: civicpulse policy add")
			return nil
		}
		for _, p := range policies {
			fmt.Printf("  [%d] %-6s %s", p.ID, p.Status, truncate(p.Title, 60))
			if p.Deadline != nil {
				fmt.Printf("  (deadline %s)", p.Deadline.Format("2006-01-02"))
			}
			fmt.Println()
		}
		return nil
	},
}

var policyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a policy and the sentiment of its feedback",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid policy ID: %s", args[0])
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		p, err := db.GetPolicy(id)
		if err != nil {
			return err
		}
		feedback, err := db.ListPolicyFeedback(id)
		if err != nil {
			return err
		}

		fmt.Printf("[%d] %s  [%s]\n", p.ID, p.Title, p.Status)
		if p.Category != nil {
			fmt.Printf("  Category: %s\n", *p.Category)
		}
		fmt.Printf("  Created: %s\n", database.FormatDisplay(p.CreatedAt))
		if p.Deadline != nil {
			fmt.Printf("  Deadline: %s\n", p.Deadline.Format("2006-01-02"))
		}
		fmt.Printf("  %s\n", p.Description)

		s := report.AnalyzePolicies([]records.Policy{*p}, feedback)[0]
		fmt.Printf("\nFeedback: %d (%d positive, %d neutral, %d negative)\n",
			s.FeedbackCount, s.Positive, s.Neutral, s.Negative)
		for _, f := range feedback {
			fmt.Printf("  %s  %-8s %s\n", database.FormatDisplay(f.SubmittedAt), f.Sentiment, truncate(f.Text, 70))
		}
		return nil
	},
}

func parsePolicyStatus(s string) (records.PolicyStatus, error) {
	for _, st := range []records.PolicyStatus{records.PolicyDraft, records.PolicyActive, records.PolicyClosed} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown policy status %q (use draft, active or closed)", s)
}

func init() {
	policyAddCmd.Flags().StringVar(&policyDescription, "description", "", "What the policy proposes (required)")
	policyAddCmd.Flags().StringVar(&policyCategory, "category", "", "Policy category, e.g. Education")
	policyAddCmd.Flags().StringVar(&policyStatus, "status", "", "Initial status: draft, active or closed (default draft)")
	policyAddCmd.Flags().StringVar(&policyDeadline, "deadline", "", "Feedback deadline (YYYY-MM-DD)")
	policyListCmd.Flags().StringVar(&policyStatus, "status", "", "Only list policies with this status")

	policyCmd.AddCommand(policyAddCmd)
	policyCmd.AddCommand(policyListCmd)
	policyCmd.AddCommand(policyShowCmd)
}
