package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/takak2166/docmost2outline/internal/fileutil"
	"github.com/takak2166/docmost2outline/internal/logger"
	"github.com/takak2166/docmost2outline/internal/migrator"
	"github.com/takak2166/docmost2outline/internal/outline"
)

const defaultMaxFileSizeMB = 25

func main() {
	// Parse command line flags
	zipPath := flag.String("zip", "", "Path to Docmost export ZIP file")
	outlineURL := flag.String("url", "", "Outline instance URL (or OUTLINE_URL)")
	apiKey := flag.String("api-key", "", "Outline API key (or OUTLINE_API_KEY)")
	collectionID := flag.String("collection-id", "", "Existing collection ID (creates new if not provided)")
	maxFileSizeMB := flag.Int64("max-file-size", defaultMaxFileSizeMB, "Maximum attachment size in MB")
	rollback := flag.Bool("rollback-on-failure", false, "Delete created documents if the migration fails")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt")
	flag.Parse()

	// .env is optional; flags and real env vars take precedence
	_ = godotenv.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	if err := logger.Init(logLevel); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	if *outlineURL == "" {
		*outlineURL = os.Getenv("OUTLINE_URL")
	}
	if *apiKey == "" {
		*apiKey = os.Getenv("OUTLINE_API_KEY")
	}

	if *zipPath == "" || *outlineURL == "" || *apiKey == "" {
		fmt.Println("Error: -zip, -url and -api-key are required (-url/-api-key may come from OUTLINE_URL/OUTLINE_API_KEY)")
		flag.Usage()
		os.Exit(1)
	}

	bold := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed, color.Bold)

	bold.Println("\nDocmost → Outline Migration Tool")
	fmt.Printf("\nZIP file: %s\n", *zipPath)
	fmt.Printf("Outline URL: %s\n", *outlineURL)
	fmt.Printf("Max file size: %dMB\n", *maxFileSizeMB)
	if *collectionID != "" {
		fmt.Printf("Target collection: %s\n", *collectionID)
	} else {
		fmt.Println("Target collection: will create new")
	}
	fmt.Println()

	if !*yes && !confirm("Proceed with migration?") {
		fmt.Println("Migration cancelled.")
		os.Exit(0)
	}

	ctx := context.Background()
	client := outline.New(*outlineURL, *apiKey)

	fmt.Println("\nConnecting to Outline...")
	auth, err := client.TestConnection(ctx)
	if err != nil {
		red.Printf("✗ Connection failed: %v\n", err)
		os.Exit(1)
	}
	green.Printf("  ✓ Connected as: %s\n\n", auth.User.Name)

	var opts []migrator.Option
	if *rollback {
		opts = append(opts, migrator.WithRollbackOnFailure())
	}
	orchestrator := migrator.New(client, *maxFileSizeMB*1024*1024, opts...)

	resultCollectionID, stats, err := orchestrator.Migrate(ctx, *zipPath, *collectionID)
	if err != nil {
		var validationErr *migrator.ValidationError
		if errors.As(err, &validationErr) {
			red.Printf("\n✗ Validation Error: %v\n", validationErr)
		} else {
			red.Printf("\n✗ Migration Failed: %v\n", err)
		}
		os.Exit(1)
	}

	green.Println("\n✓ Migration completed successfully!")
	fmt.Printf("\nCollection ID: %s\n", resultCollectionID)
	fmt.Printf("Collection URL: %s/collection/%s\n", client.BaseURL(), resultCollectionID)
	fmt.Printf("\nDocuments created: %d\n", stats.DocumentsCreated)
	fmt.Printf("Attachments uploaded: %d\n", stats.AttachmentsUploaded)
	fmt.Printf("Total attachment size: %s\n", fileutil.FormatBytes(stats.TotalAttachmentBytes))
}

// confirm asks a yes/no question on stdin, defaulting to yes.
func confirm(prompt string) bool {
	fmt.Printf("%s [Y/n]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "" || answer == "y" || answer == "yes"
}
