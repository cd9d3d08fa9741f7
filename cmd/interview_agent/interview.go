package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/fetch"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/report"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/spf13/cobra"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a mock interview in the terminal",
	Long: `Runs a timed mock interview against your resume. Questions alternate between
resume-specific topics and conversational follow-ups; answers to follow-ups are
scored as you go. Type /end (or Ctrl-D) to finish early and get the full report.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runInterviewCmd,
}

var (
	ivConfigPath  string
	ivResume      string
	ivRole        string
	ivLevel       string
	ivDuration    int
	ivJob         string
	ivJobURL      string
	ivAPIKey      string
	ivUserID      string
	ivDatabaseURL string
	ivUseBrowser  bool
	ivVerbose     bool
)

func init() {
	interviewCmd.Flags().StringVar(&ivConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	interviewCmd.Flags().StringVarP(&ivResume, "resume", "r", "", "Path to resume text file")
	interviewCmd.Flags().StringVar(&ivRole, "role", "", "Target role, e.g. \"Backend Engineer\"")
	interviewCmd.Flags().StringVar(&ivLevel, "level", "", "Experience level, e.g. \"Senior\"")
	interviewCmd.Flags().IntVarP(&ivDuration, "duration", "d", 0, "Interview length in minutes (5-15, default 10)")
	interviewCmd.Flags().StringVarP(&ivJob, "job", "j", "", "Path to job description text file (mutually exclusive with --job-url)")
	interviewCmd.Flags().StringVar(&ivJobURL, "job-url", "", "URL to fetch job description from (mutually exclusive with --job)")
	interviewCmd.Flags().BoolVar(&ivUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	interviewCmd.Flags().BoolVarP(&ivVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	interviewCmd.Flags().StringVar(&ivAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Optional report persistence
	interviewCmd.Flags().StringVar(&ivUserID, "user-id", "", "User UUID to persist the report under (requires database)")
	interviewCmd.Flags().StringVar(&ivDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(interviewCmd)
}

func runInterviewCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Load config file if provided
	var cfg config.Config
	if ivConfigPath != "" {
		loadedCfg, err := config.LoadConfig(ivConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
		if ivVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", ivConfigPath)
		}
	}

	// Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("resume") {
		cfg.Resume = ivResume
	}
	if cmd.Flags().Changed("role") {
		cfg.Role = ivRole
	}
	if cmd.Flags().Changed("level") {
		cfg.Level = ivLevel
	}
	if cmd.Flags().Changed("duration") {
		cfg.DurationMinutes = ivDuration
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = ivJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = ivJobURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = ivAPIKey
	}
	if cmd.Flags().Changed("user-id") {
		cfg.UserID = ivUserID
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = ivDatabaseURL
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = ivUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = ivVerbose
	}

	// Validate required fields
	if cfg.Resume == "" {
		return fmt.Errorf("--resume is required (via flag or config)")
	}
	if cfg.Role == "" {
		return fmt.Errorf("--role is required (via flag or config)")
	}
	if cfg.Level == "" {
		return fmt.Errorf("--level is required (via flag or config)")
	}
	if cfg.Job != "" && cfg.JobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}

	// API Key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	resumeData, err := os.ReadFile(cfg.Resume)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	jobDescription := ""
	switch {
	case cfg.Job != "":
		jobData, err := os.ReadFile(cfg.Job)
		if err != nil {
			return fmt.Errorf("failed to read job file: %w", err)
		}
		jobDescription = string(jobData)
	case cfg.JobURL != "":
		opts := fetch.DefaultJobDescriptionOptions()
		opts.AllowBrowser = cfg.UseBrowser
		opts.Verbose = cfg.Verbose
		jobDescription, err = fetch.JobDescription(ctx, cfg.JobURL, opts)
		if err != nil {
			return fmt.Errorf("failed to fetch job description: %w", err)
		}
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	// Optional report persistence when a user and database are configured
	userID := uuid.Nil
	var database *db.DB
	if cfg.UserID != "" {
		userID, err = uuid.Parse(cfg.UserID)
		if err != nil {
			return fmt.Errorf("invalid user_id format: %w", err)
		}
		dbURL := cfg.DatabaseURL
		if dbURL == "" {
			dbURL = os.Getenv("DATABASE_URL")
		}
		if dbURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required when --user-id is set")
		}
		database, err = db.Connect(ctx, dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
	}

	sessCfg := interview.Config{
		Client:     client,
		Summarizer: report.NewAggregator(client),
	}
	if database != nil {
		sessCfg.OnComplete = func(sess *interview.Session, rep *types.FinalReport) {
			_, saveErr := database.SaveReport(ctx, &db.ReportInput{
				UserID:          sess.UserID,
				SessionID:       sess.ID,
				Role:            rep.Metadata.Role,
				ExperienceLevel: rep.Metadata.ExperienceLevel,
				OverallScore:    rep.OverallEvaluation.Score,
				TotalQuestions:  rep.Metadata.TotalQuestions,
				Report:          rep,
			})
			if saveErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to persist report: %v\n", saveErr)
			}
		}
	}

	sess, err := interview.NewSession(interview.Params{
		UserID:          userID,
		ResumeText:      string(resumeData),
		Role:            cfg.Role,
		ExperienceLevel: cfg.Level,
		JobDescription:  jobDescription,
		DurationMinutes: cfg.DurationMinutes,
	}, sessCfg)
	if err != nil {
		return err
	}

	fmt.Println("Preparing your interview...")
	if err := sess.Start(ctx); err != nil {
		return fmt.Errorf("failed to start interview: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintDigest(sess.Digest())
	}

	status := sess.Status()
	fmt.Printf("\n%s interview, %s level, %d minutes. Type /end to finish early.\n",
		status.Role, status.ExperienceLevel, status.RemainingMinutes)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Printf("\nQ: %s\n> ", sess.PendingQuestion())
		if !scanner.Scan() {
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "/end" {
			break
		}
		if answer == "" {
			continue
		}

		resp, err := sess.SubmitAnswer(ctx, answer)
		if err != nil {
			if errors.Is(err, interview.ErrSessionNotActive) || errors.Is(err, interview.ErrSessionEnded) {
				fmt.Println("\nTime is up.")
				break
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		if resp.Score != nil {
			fmt.Printf("[score %d/10] %s\n", *resp.Score, resp.Feedback)
		}
		fmt.Printf("(%d minute(s) remaining)\n", resp.RemainingMinutes)
	}

	fmt.Println("\nGenerating your report...")
	rep, err := sess.End(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	printer.PrintFinalReport(rep)
	return nil
}
