package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/3qupo/DocumentProcessor/internal/intake"
	"github.com/3qupo/DocumentProcessor/internal/ledger"
	"github.com/3qupo/DocumentProcessor/internal/recognition"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	os.Exit(run())
}

func run() int {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			return 0
		}
	}

	// Optional .env bootstrap; absence is fine.
	_ = godotenv.Load()

	rootFlags := ff.NewFlagSet("formscan")
	var (
		ledgerPath      = rootFlags.StringLong("ledger", "questionnaires.xlsx", "Ledger workbook path")
		recognizerType  = rootFlags.StringLong("recognizer", "embedded", "Recognition backend: 'embedded', 'tesseract', 'gemini' or 'ollama'")
		tessdataPath    = rootFlags.StringLong("tessdata", "", "Tesseract trained-data directory (tesseract backend)")
		geminiKey       = rootFlags.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel     = rootFlags.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL       = rootFlags.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel     = rootFlags.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, qwen2-vl)")
		pace            = rootFlags.DurationLong("pace", 100*time.Millisecond, "Delay between files in folder mode")
		recreateCorrupt = rootFlags.BoolLong("recreate-corrupt", "Recreate an unparsable ledger file (discards all recorded rows)")
		_               = rootFlags.BoolLong("version", "Show version information")
	)

	newService := func() (*intake.Service, func(), error) {
		var opts []ledger.Option
		if *recreateCorrupt {
			opts = append(opts, ledger.WithRecreateCorrupt())
		}

		slog.Info("Opening ledger...", "path", *ledgerPath)
		store, err := ledger.Open(*ledgerPath, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("opening ledger: %w", err)
		}

		recognizer, err := newRecognizer(*recognizerType, *tessdataPath, *geminiKey, *geminiModel, *ollamaURL, *ollamaModel)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing recognizer: %w", err)
		}

		service := intake.NewServiceWithDeps(store, recognizer, nil, *pace)
		cleanup := func() {
			if err := recognizer.Close(); err != nil {
				slog.Warn("Failed to close recognizer", "error", err)
			}
		}
		return service, cleanup, nil
	}

	scanFlags := ff.NewFlagSet("scan").SetParent(rootFlags)
	scanCmd := &ff.Command{
		Name:      "scan",
		Usage:     "formscan scan <image> [operator]",
		ShortHelp: "recognize one questionnaire image and append it to the ledger",
		Flags:     scanFlags,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("scan requires an image path")
			}
			operator := "auto"
			if len(args) > 1 {
				operator = args[1]
			}

			service, cleanup, err := newService()
			if err != nil {
				return err
			}
			defer cleanup()

			result := service.ProcessImage(ctx, args[0], operator, "")
			if result.Success {
				fmt.Printf("Questionnaire recorded at row %d in %s\n", result.RowNumber, *ledgerPath)
			} else {
				fmt.Printf("Failed: %s\n", result.Message)
			}
			return nil
		},
	}

	folderFlags := ff.NewFlagSet("folder").SetParent(rootFlags)
	folderCmd := &ff.Command{
		Name:      "folder",
		Usage:     "formscan folder <dir> [operator]",
		ShortHelp: "process every questionnaire image in a folder",
		Flags:     folderFlags,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("folder requires a directory path")
			}
			operator := "batch"
			if len(args) > 1 {
				operator = args[1]
			}

			service, cleanup, err := newService()
			if err != nil {
				return err
			}
			defer cleanup()

			batch, err := service.ProcessFolder(ctx, args[0], operator)
			if err != nil {
				// A missing or empty folder is a completed command, not an
				// initialization failure.
				fmt.Printf("Failed: %v\n", err)
				return nil
			}

			for _, item := range batch.Details {
				mark := "ok"
				if !item.Success {
					mark = "FAILED"
				}
				fmt.Printf("  [%s] %s: %s\n", mark, item.File, item.Message)
			}
			fmt.Printf("Done: %d succeeded, %d failed, %d total (%s)\n",
				batch.Success, batch.Failed, batch.Total, *ledgerPath)
			return nil
		},
	}

	statsFlags := ff.NewFlagSet("stats").SetParent(rootFlags)
	statsCmd := &ff.Command{
		Name:      "stats",
		Usage:     "formscan stats",
		ShortHelp: "show ledger and current-run statistics",
		Flags:     statsFlags,
		Exec: func(ctx context.Context, args []string) error {
			service, cleanup, err := newService()
			if err != nil {
				return err
			}
			defer cleanup()

			stats := service.Statistics()
			fmt.Printf("Ledger file:          %s\n", stats.LedgerPath)
			fmt.Printf("Total records:        %d\n", stats.TotalRecords)
			fmt.Printf("Successful records:   %d\n", stats.SuccessfulRecords)
			fmt.Printf("Unique dates:         %d\n", stats.UniqueVisitDates)
			fmt.Printf("Current run:          total=%d success=%d failed=%d\n",
				stats.Run.Total, stats.Run.Success, stats.Run.Failed)
			if stats.Run.LastFile != "" {
				fmt.Printf("Last file:            %s\n", stats.Run.LastFile)
			}
			return nil
		},
	}

	rootCmd := &ff.Command{
		Name:        "formscan",
		Usage:       "formscan [FLAGS] SUBCOMMAND ...",
		ShortHelp:   "questionnaire scan intake with a single xlsx ledger",
		Flags:       rootFlags,
		Subcommands: []*ff.Command{scanCmd, folderCmd, statsCmd},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ParseAndRun(ctx, os.Args[1:], ff.WithEnvVarPrefix("FORMSCAN"))
	switch {
	case errors.Is(err, ff.ErrHelp), errors.Is(err, ff.ErrNoExec):
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(rootCmd))
		return 0
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// newRecognizer selects the recognition backend. The embedded backend is the
// default and needs no external services.
func newRecognizer(kind, tessdataPath, geminiKey, geminiModel, ollamaURL, ollamaModel string) (recognition.Recognizer, error) {
	switch kind {
	case "embedded":
		return recognition.NewEmbedded(), nil
	case "tesseract":
		slog.Info("Initializing Tesseract recognizer...", "tessdata", tessdataPath)
		return recognition.NewTesseract(tessdataPath)
	case "gemini":
		apiKey := geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini recognizer...", "model", geminiModel)
		return recognition.NewGemini(apiKey, geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama recognizer...", "url", ollamaURL, "model", ollamaModel)
		return recognition.NewOllama(ollamaURL, ollamaModel)
	default:
		return nil, fmt.Errorf("invalid recognizer type %q (valid: embedded, tesseract, gemini, ollama)", kind)
	}
}
