package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/civicpulse/civicpulse/internal/classify"
	"github.com/civicpulse/civicpulse/internal/database"
	"github.com/civicpulse/civicpulse/internal/intake"
	"github.com/civicpulse/civicpulse/internal/records"
)

var citizenFlags intake.Citizen

func addCitizenFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&citizenFlags.Name, "name", "", "Citizen name")
	cmd.Flags().StringVar(&citizenFlags.Phone, "phone", "", "Citizen phone number (E.164, e.g. +256700123456)")
}

// --- classify command ---

var classifyCmd = &cobra.Command{
	Use:   "classify TEXT",
	Short: "Classify a piece of citizen text without storing it",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		result := classify.New(nil, nil).GenerateInsights(strings.Join(args, " "))
		printClassification(result)
	},
}

func printClassification(r classify.Result) {
	fmt.Printf("  Category: %s", r.Category)
	if r.MinistryCode != "" {
		fmt.Printf(" (%s)", r.MinistryCode)
	}
	fmt.Println()
	fmt.Printf("  Priority: %s\n", r.Priority)
	fmt.Printf("  Sentiment: %s (%.2f)\n", r.Sentiment, r.Polarity)
	if len(r.Themes) > 0 {
		fmt.Printf("  Themes: %s\n", strings.Join(r.Themes, ", "))
	}
	fmt.Printf("  Confidence: %.0f%%\n", r.Confidence*100)
	for _, insight := range r.Insights {
		fmt.Printf("  * %s\n", insight)
	}
}

// --- complaint commands ---

var complaintCmd = &cobra.Command{
	Use:   "complaint",
	Short: "File and track citizen complaints",
}

var (
	complaintLocation string
	complaintDistrict string
)

var complaintAddCmd = &cobra.Command{
	Use:   "add DESCRIPTION",
	Short: "File a complaint",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		receipt, err := intake.NewService(db, nil).SubmitComplaint(intake.ComplaintInput{
			Citizen:     citizenFlags,
			Description: strings.Join(args, " "),
			Location:    complaintLocation,
			District:    complaintDistrict,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Complaint filed: %s\n", receipt.TrackingNumber)
		printClassification(receipt.Classification)
		if receipt.Ministry != "" {
			fmt.Printf("  Assigned to: %s\n", receipt.Ministry)
		}
		fmt.Printf("  Estimated resolution: %.1f days (%s)\n", receipt.Estimate.Days, receipt.Estimate.Basis)
		return nil
	},
}

var complaintShowCmd = &cobra.Command{
	Use:   "show TRACKING_NUMBER",
	Short: "Show a complaint by tracking number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		c, err := db.GetComplaintByTracking(strings.ToUpper(args[0]))
		if err != nil {
			return err
		}
		fmt.Printf("%s  [%s] %s\n", c.TrackingNumber, c.Status, c.Category)
		fmt.Printf("  Priority: %s\n", c.Priority)
		fmt.Printf("  Filed: %s\n", database.FormatDisplay(c.CreatedAt))
		if c.ResolvedAt != nil {
			fmt.Printf("  Resolved: %s\n", database.FormatDisplay(*c.ResolvedAt))
		}
		if c.Location != nil {
			fmt.Printf("  Location: %s\n", *c.Location)
		}
		fmt.Printf("  %s\n", c.Description)
		return nil
	},
}

var complaintStatusCmd = &cobra.Command{
	Use:   "status TRACKING_NUMBER STATUS",
	Short: "Set a complaint's status (pending, in-progress, resolved)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := parseStatus(args[1])
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		tracking := strings.ToUpper(args[0])
		if err := db.UpdateComplaintStatus(tracking, status, time.Now()); err != nil {
			return err
		}
		fmt.Printf("Complaint %s is now %s\n", tracking, status)
		return nil
	},
}

func parseStatus(s string) (records.Status, error) {
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)) {
	case "pending":
		return records.StatusPending, nil
	case "inprogress":
		return records.StatusInProgress, nil
	case "resolved":
		return records.StatusResolved, nil
	}
	return "", fmt.Errorf("unknown status %q (use pending, in-progress or resolved)", s)
}

func init() {
	addCitizenFlags(complaintAddCmd)
	complaintAddCmd.Flags().StringVar(&complaintLocation, "location", "", "Where the problem is")
	complaintAddCmd.Flags().StringVar(&complaintDistrict, "district", "", "District name")

	complaintCmd.AddCommand(complaintAddCmd)
	complaintCmd.AddCommand(complaintShowCmd)
	complaintCmd.AddCommand(complaintStatusCmd)
}

// --- feedback command ---

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record policy feedback",
}

var feedbackPolicy int64

var feedbackAddCmd = &cobra.Command{
	Use:   "add TEXT",
	Short: "Record feedback on a policy",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		in := intake.FeedbackInput{Citizen: citizenFlags, Text: strings.Join(args, " ")}
		if cmd.Flags().Changed("policy") {
			in.PolicyID = &feedbackPolicy
		}
		receipt, err := intake.NewService(db, nil).SubmitFeedback(in)
		if err != nil {
			return err
		}

		fmt.Printf("Feedback recorded [%d]: %s", receipt.ID, receipt.Sentiment)
		if len(receipt.Themes) > 0 {
			fmt.Printf(" (%s)", strings.Join(receipt.Themes, ", "))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	addCitizenFlags(feedbackAddCmd)
	feedbackAddCmd.Flags().Int64Var(&feedbackPolicy, "policy", 0, "Policy ID the feedback refers to")
	feedbackCmd.AddCommand(feedbackAddCmd)
}

// --- rating command ---

var ratingCmd = &cobra.Command{
	Use:   "rating",
	Short: "Record service ratings",
}

var ratingComment string

var ratingAddCmd = &cobra.Command{
	Use:   "add SERVICE LOCATION RATING",
	Short: "Rate a public service from 1 to 5",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var value int
		if _, err := fmt.Sscanf(args[2], "%d", &value); err != nil {
			return fmt.Errorf("invalid rating: %s", args[2])
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := intake.NewService(db, nil).SubmitRating(intake.RatingInput{
			Citizen:         citizenFlags,
			ServiceType:     args[0],
			ServiceLocation: args[1],
			Rating:          value,
			Comment:         ratingComment,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Rating recorded [%d]: %s, %s: %d/5\n", id, args[0], args[1], value)
		return nil
	},
}

func init() {
	addCitizenFlags(ratingAddCmd)
	ratingAddCmd.Flags().StringVar(&ratingComment, "comment", "", "Optional comment")
	ratingCmd.AddCommand(ratingAddCmd)
}

// --- directory commands ---

var districtCmd = &cobra.Command{
	Use:   "district",
	Short: "Manage districts",
}

var districtAddCmd = &cobra.Command{
	Use:   "add NAME REGION",
	Short: "Register a district",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := db.InsertDistrict(args[0], args[1])
		if err != nil {
			return err
		}
		if id == 0 {
			fmt.Printf("District %s already registered\n", args[0])
			return nil
		}
		fmt.Printf("Added district [%d]: %s (%s)\n", id, args[0], args[1])
		return nil
	},
}

var districtListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered districts",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		districts, err := db.ListDistricts()
		if err != nil {
			return err
		}
		if len(districts) == 0 {
			fmt.Println("No districts registered. Add one with: civicpulse district add")
			return nil
		}
		for _, d := range districts {
			fmt.Printf("  [%d] %s (%s)\n", d.ID, d.Name, d.Region)
		}
		return nil
	},
}

var ministryCmd = &cobra.Command{
	Use:   "ministry",
	Short: "Manage ministries",
}

var ministryAddCmd = &cobra.Command{
	Use:   "add NAME CODE",
	Short: "Register a ministry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		code := strings.ToUpper(args[1])
		id, err := db.InsertMinistry(args[0], code)
		if err != nil {
			return err
		}
		if id == 0 {
			fmt.Printf("Ministry %s already registered\n", code)
			return nil
		}
		fmt.Printf("Added ministry [%d]: %s (%s)\n", id, args[0], code)
		return nil
	},
}

var ministryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered ministries",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ministries, err := db.ListMinistries()
		if err != nil {
			return err
		}
		if len(ministries) == 0 {
			fmt.Println("No ministries registered. Run: civicpulse init")
			return nil
		}
		for _, m := range ministries {
			fmt.Printf("  [%d] %-6s %s\n", m.ID, m.Code, m.Name)
		}
		return nil
	},
}

func init() {
	districtCmd.AddCommand(districtAddCmd)
	districtCmd.AddCommand(districtListCmd)
	ministryCmd.AddCommand(ministryAddCmd)
	ministryCmd.AddCommand(ministryListCmd)
}
